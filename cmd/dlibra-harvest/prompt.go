// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/dlibra-harvest/internal/acquire"
)

var (
	errInvalidYear  = errors.New("year must be four digits")
	errInvalidMonth = errors.New("month must be between 01 and 12")
	errInvalidURL   = errors.New("catalog URL must be an absolute http(s) URL")
)

// normalizeYear accepts an empty string or a four-digit year.
func normalizeYear(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if len(s) != 4 {
		return "", fmt.Errorf("%w: %q", errInvalidYear, s)
	}
	if _, err := strconv.Atoi(s); err != nil || strings.ContainsAny(s, "+-") {
		return "", fmt.Errorf("%w: %q", errInvalidYear, s)
	}
	return s, nil
}

// normalizeMonth accepts an empty string or a month number and returns it
// zero-padded to two digits.
func normalizeMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || len(s) > 2 || strings.ContainsAny(s, "+-") || n < 1 || n > 12 {
		return "", fmt.Errorf("%w: %q", errInvalidMonth, s)
	}
	return fmt.Sprintf("%02d", n), nil
}

func validateURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", errInvalidURL, s)
	}
	return s, nil
}

// newRequest validates the catalog URL and date filters.
func newRequest(rawURL, year, month string) (acquire.Request, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return acquire.Request{}, err
	}
	y, err := normalizeYear(year)
	if err != nil {
		return acquire.Request{}, err
	}
	m, err := normalizeMonth(month)
	if err != nil {
		return acquire.Request{}, err
	}
	return acquire.Request{URL: u, Year: y, Month: m}, nil
}

// promptRequest asks for the URL, year and month on in. Blank year or month
// means no filter.
func promptRequest(in io.Reader, out io.Writer) (acquire.Request, error) {
	r := bufio.NewReader(in)
	ask := func(question string) (string, error) {
		fmt.Fprint(out, question)
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	rawURL, err := ask("Catalog URL: ")
	if err != nil {
		return acquire.Request{}, fmt.Errorf("reading URL: %w", err)
	}
	year, err := ask("Year (YYYY, blank for all): ")
	if err != nil {
		return acquire.Request{}, fmt.Errorf("reading year: %w", err)
	}
	month, err := ask("Month (MM, blank for all): ")
	if err != nil {
		return acquire.Request{}, fmt.Errorf("reading month: %w", err)
	}
	return newRequest(rawURL, year, month)
}
