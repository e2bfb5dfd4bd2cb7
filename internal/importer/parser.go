package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/moneymanager/internal/encoding"
	"github.com/MrJamesThe3rd/moneymanager/internal/transaction"
)

// Date layouts accepted in the transactionDate column. Dates without a
// time of day are taken as midnight UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
}

// Parser reads CSV files whose header names the transaction fields.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns one CreateParams per data row. The first invalid row aborts
// the parse with a *RowError.
func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}

	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return nil, &RowError{Row: perr.Line, Err: perr.Err}
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var params []transaction.CreateParams

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if errors.As(err, &perr) {
			return nil, &RowError{Row: perr.Line, Err: perr.Err}
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if blank(row) {
			continue
		}

		tp, err := cols.parseRow(row)
		if err != nil {
			return nil, &RowError{Row: line, Err: err}
		}

		params = append(params, tp)
	}

	return params, nil
}

// sniffDelimiter picks ';' when the header line has more semicolons than commas.
func sniffDelimiter(br *bufio.Reader) rune {
	head, _ := br.Peek(br.Size())

	if i := strings.IndexByte(string(head), '\n'); i >= 0 {
		head = head[:i]
	}

	if strings.Count(string(head), ";") > strings.Count(string(head), ",") {
		return ';'
	}

	return ','
}

// colIndex maps a column name to its position in the row.
type colIndex map[string]int

func indexColumns(header []string) (colIndex, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := make(colIndex, len(Columns))

	for _, name := range Columns {
		idx, ok := byName[strings.ToLower(name)]
		if !ok {
			if optionalColumns[name] {
				continue
			}

			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}

		cols[name] = idx
	}

	return cols, nil
}

func (c colIndex) value(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func (c colIndex) parseRow(row []string) (transaction.CreateParams, error) {
	typ := transaction.Type(strings.ToUpper(c.value(row, "type")))
	if !typ.Valid() {
		return transaction.CreateParams{}, fmt.Errorf("invalid type %q", c.value(row, "type"))
	}

	amount, err := parseAmount(c.value(row, "amount"))
	if err != nil {
		return transaction.CreateParams{}, err
	}

	category := c.value(row, "category")
	if category == "" {
		return transaction.CreateParams{}, errors.New("missing category")
	}

	division := transaction.Division(strings.ToUpper(c.value(row, "division")))
	if !division.Valid() {
		return transaction.CreateParams{}, fmt.Errorf("invalid division %q", c.value(row, "division"))
	}

	description := c.value(row, "description")
	if description == "" {
		return transaction.CreateParams{}, errors.New("missing description")
	}

	date, err := parseDate(c.value(row, "transactionDate"))
	if err != nil {
		return transaction.CreateParams{}, err
	}

	return transaction.CreateParams{
		Type:            typ,
		Amount:          amount,
		Category:        category,
		Division:        division,
		Description:     description,
		TransactionDate: date,
		SourceAccount:   c.value(row, "sourceAccount"),
		TargetAccount:   c.value(row, "targetAccount"),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing transactionDate")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid transactionDate %q", s)
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
