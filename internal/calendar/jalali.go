package calendar

import "time"

// Jalali implements the Persian (Solar Hijri) civil calendar using the
// 33-year-cycle integer algorithm. Weeks start on Saturday (index 0).
type Jalali struct{}

func (Jalali) Name() string { return SystemJalali }

func (Jalali) FromTime(t time.Time) (int, int, int) {
	gy, gm, gd := t.Date()
	return gregorianToJalali(gy, int(gm), gd)
}

func (Jalali) Date(year, month, day int, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if year < minJalaliYear || year > maxJalaliYear || month < 1 || month > 12 || day < 1 || day > jalaliMonthLen(year, month) {
		return time.Time{}, ErrInvalidDate
	}
	gy, gm, gd := jalaliToGregorian(year, month, day)
	return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, loc), nil
}

// DayOfWeek returns 0 for Saturday through 6 for Friday.
func (Jalali) DayOfWeek(t time.Time) int { return (int(t.Weekday()) + 1) % 7 }

var jalaliWeekdays = [7]string{
	"Shanbe", "Yekshanbe", "Doshanbe", "Seshanbe", "Chaharshanbe", "Panjshanbe", "Jomeh",
}

func (Jalali) WeekdayName(index int) string {
	if index < 0 || index > 6 {
		return ""
	}
	return jalaliWeekdays[index]
}

// The 33-year cycle arithmetic is exact within this window, which covers any
// date a booking system will ever schedule.
const (
	minJalaliYear = 1206 // 1827 CE
	maxJalaliYear = 1498 // 2119 CE
)

// leapsBefore counts Jalali leap years in [979, 979+n).
func leapsBefore(n int) int {
	return (n/33)*8 + (n%33+3)/4
}

func jalaliLeap(jy int) bool {
	n := jy - 979
	return leapsBefore(n+1)-leapsBefore(n) == 1
}

func jalaliMonthLen(jy, jm int) int {
	switch {
	case jm <= 6:
		return 31
	case jm <= 11:
		return 30
	case jalaliLeap(jy):
		return 30
	default:
		return 29
	}
}

var gregorianDaysBeforeMonth = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

func gregorianLeap(gy int) bool {
	return (gy%4 == 0 && gy%100 != 0) || gy%400 == 0
}

func gregorianToJalali(gy, gm, gd int) (jy, jm, jd int) {
	gy2 := gy - 1600
	gDayNo := 365*gy2 + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400
	gDayNo += gregorianDaysBeforeMonth[gm-1]
	if gm > 2 && gregorianLeap(gy) {
		gDayNo++
	}
	gDayNo += gd - 1

	jDayNo := gDayNo - 79
	jNp := jDayNo / 12053
	jDayNo %= 12053

	jy = 979 + 33*jNp + 4*(jDayNo/1461)
	jDayNo %= 1461
	if jDayNo >= 366 {
		jy += (jDayNo - 366) / 365
		jDayNo = (jDayNo - 366) % 365
	}

	var i int
	for i = 0; i < 11; i++ {
		ml := 31
		if i >= 6 {
			ml = 30
		}
		if jDayNo < ml {
			break
		}
		jDayNo -= ml
	}
	return jy, i + 1, jDayNo + 1
}

func jalaliToGregorian(jy, jm, jd int) (gy, gm, gd int) {
	jy2 := jy - 979
	jDayNo := 365*jy2 + leapsBefore(jy2)
	for i := 0; i < jm-1; i++ {
		if i < 6 {
			jDayNo += 31
		} else {
			jDayNo += 30
		}
	}
	jDayNo += jd - 1

	gDayNo := jDayNo + 79
	gy = 1600 + 400*(gDayNo/146097)
	gDayNo %= 146097

	leap := true
	if gDayNo >= 36525 {
		gDayNo--
		gy += 100 * (gDayNo / 36524)
		gDayNo %= 36524
		if gDayNo >= 365 {
			gDayNo++
		} else {
			leap = false
		}
	}

	gy += 4 * (gDayNo / 1461)
	gDayNo %= 1461
	if gDayNo >= 366 {
		leap = false
		gDayNo--
		gy += gDayNo / 365
		gDayNo %= 365
	}

	monthLens := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if leap {
		monthLens[1] = 29
	}
	var i int
	for i = 0; i < 12; i++ {
		if gDayNo < monthLens[i] {
			break
		}
		gDayNo -= monthLens[i]
	}
	return gy, i + 1, gDayNo + 1
}
