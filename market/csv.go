package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{"date", "open", "high", "low", "close", "volume"}

// LoadCSV reads a daily bar series from a file written by SaveCSV
// (date,open,high,low,close,volume with a header row). A file with no data
// rows returns ErrNoData.
func LoadCSV(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open series: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: %w", path, ErrNoData)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var s Series
	for row := 1; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		b, err := parseBarRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		s = append(s, b)
	}

	if len(s) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoData)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseBarRow(rec []string) (Bar, error) {
	var b Bar
	var err error

	if b.Date, err = time.Parse(DateLayout, rec[0]); err != nil {
		return Bar{}, fmt.Errorf("parse date: %w", err)
	}
	if b.Open, err = strconv.ParseFloat(rec[1], 64); err != nil {
		return Bar{}, fmt.Errorf("parse open: %w", err)
	}
	if b.High, err = strconv.ParseFloat(rec[2], 64); err != nil {
		return Bar{}, fmt.Errorf("parse high: %w", err)
	}
	if b.Low, err = strconv.ParseFloat(rec[3], 64); err != nil {
		return Bar{}, fmt.Errorf("parse low: %w", err)
	}
	if b.Close, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return Bar{}, fmt.Errorf("parse close: %w", err)
	}
	if b.Volume, err = strconv.ParseInt(rec[5], 10, 64); err != nil {
		return Bar{}, fmt.Errorf("parse volume: %w", err)
	}
	return b, nil
}

// SaveCSV writes the series to path in the layout LoadCSV reads.
func SaveCSV(path string, s Series) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create series file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return err
	}
	for _, b := range s {
		err := w.Write([]string{
			b.Date.Format(DateLayout),
			fp(b.Open),
			fp(b.High),
			fp(b.Low),
			fp(b.Close),
			strconv.FormatInt(b.Volume, 10),
		})
		if err != nil {
			f.Close()
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fp(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
