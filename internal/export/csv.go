// Package export writes the test history as a spreadsheet-friendly CSV
// report, one row per question.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/mockexam/internal/session"
)

// ErrNoHistory is returned when there is nothing to export.
var ErrNoHistory = errors.New("沒有歷史紀錄可匯出。")

// bom makes spreadsheet apps detect UTF-8.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Headers are the report columns in order.
var Headers = []string{
	"測驗ID", "測驗日期", "測驗時間", "考試名稱", "總耗時(秒)", "總分(答對/總題數)",
	"題目編號", "題目內容", "題目主題", "選項A", "選項B", "選項C", "選項D",
	"正確答案(Key)", "使用者答案(Key)", "是否答對", "詳解",
}

// FileName returns the report name for a report made at now.
func FileName(now time.Time) string {
	return "fantextic_test_history_" + now.UTC().Format("2006-01-02") + ".csv"
}

// WriteCSV writes records to w. Dates and times are rendered in loc.
func WriteCSV(w io.Writer, records []session.TestRecord, loc *time.Location) error {
	if len(records) == 0 {
		return ErrNoHistory
	}
	if loc == nil {
		loc = time.Local
	}

	bw := bufio.NewWriter(w)
	bw.Write(bom)
	bw.WriteString(strings.Join(Headers, ",") + "\n")

	for _, rec := range records {
		ts := rec.Time().In(loc)
		score := "'" + strconv.Itoa(rec.Score.Correct) + "/" + strconv.Itoa(len(rec.Questions))
		for i, q := range rec.Questions {
			chosen, ok := rec.Answer(q.ID)
			if !ok {
				chosen = "N/A"
			}
			correct := "否"
			if chosen == q.CorrectAnswerKey {
				correct = "是"
			}
			options := make(map[string]string, len(q.Options))
			for _, o := range q.Options {
				options[o.Key] = o.Text
			}

			row := []string{
				rec.ID,
				ts.Format("2006/01/02"),
				ts.Format("15:04"),
				quote(rec.ExamName),
				strconv.Itoa(rec.ElapsedSecs),
				score,
				strconv.Itoa(i + 1),
				quote(q.QuestionText),
				quote(q.Topic),
				quote(options["A"]),
				quote(options["B"]),
				quote(options["C"]),
				quote(options["D"]),
				q.CorrectAnswerKey,
				chosen,
				correct,
				quote(q.Explanation),
			}
			bw.WriteString(strings.Join(row, ",") + "\n")
		}
	}
	return bw.Flush()
}

// WriteFile writes the report to path, creating parent directories.
func WriteFile(path string, records []session.TestRecord, loc *time.Location) error {
	if len(records) == 0 {
		return ErrNoHistory
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := WriteCSV(f, records, loc); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	return f.Close()
}

// quote always quotes free text and doubles embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
