package services

import (
	"strings"
	"time"
)

const (
	isoDate     = "2006-01-02"
	russianDate = "02.01.2006"
)

// FormatDate renders an ISO calendar date as DD.MM.YYYY. Values that do
// not parse are returned unchanged.
func FormatDate(iso string) string {
	t, err := time.Parse(isoDate, strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	return t.Format(russianDate)
}

// FormatDateLong renders an ISO date in the "«15» января 2024 г." form used
// on the document title line.
func FormatDateLong(iso string) string {
	t, err := time.Parse(isoDate, strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	return "«" + t.Format("02") + "» " + genitiveMonths[t.Month()-1] + " " + t.Format("2006") + " г."
}

var genitiveMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// GeometryLabel joins a diameter and wall thickness as "1420 x 21.6". Either
// part may be missing.
func GeometryLabel(diameter, wall string) string {
	switch {
	case diameter != "" && wall != "":
		return diameter + " x " + wall
	case diameter != "":
		return diameter
	default:
		return wall
	}
}
