package repository

import (
	"strconv"
	"strings"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
