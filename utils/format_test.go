package utils

import (
	"testing"
	"time"
)

func TestFormatAmountGrouped(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "0.00"},
		{999, "999.00"},
		{1000, "1,000.00"},
		{15000, "15,000.00"},
		{1234567.89, "1,234,567.89"},
		{-2500.5, "-2,500.50"},
	}
	for _, tc := range cases {
		if got := FormatAmountGrouped(tc.amount); got != tc.want {
			t.Errorf("FormatAmountGrouped(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	if got := FormatDateTime(nil); got != "" {
		t.Errorf("nil = %q", got)
	}
	ts := time.Date(2025, 10, 1, 9, 5, 0, 0, time.UTC)
	if got := FormatDateTime(&ts); got != "2025-10-01 09:05" {
		t.Errorf("formatted = %q", got)
	}
}

func TestBahtText(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "ศูนย์บาทถ้วน"},
		{1, "หนึ่งบาทถ้วน"},
		{11, "สิบเอ็ดบาทถ้วน"},
		{21, "ยี่สิบเอ็ดบาทถ้วน"},
		{15000, "หนึ่งหมื่นห้าพันบาทถ้วน"},
		{1000000, "หนึ่งล้านบาทถ้วน"},
		{2500.50, "สองพันห้าร้อยบาทห้าสิบสตางค์"},
		{0.25, "ศูนย์บาทยี่สิบห้าสตางค์"},
	}
	for _, tc := range cases {
		if got := BahtText(tc.amount); got != tc.want {
			t.Errorf("BahtText(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
