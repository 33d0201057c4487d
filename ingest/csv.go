package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/stakestar/nodelyzer/engine"
)

func newReader(raw []byte) *csv.Reader {
	header := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		header = raw[:i]
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	switch {
	case bytes.IndexByte(header, ',') >= 0:
		r.Comma = ','
	case bytes.IndexByte(header, ';') >= 0:
		r.Comma = ';'
	case bytes.IndexByte(header, '\t') >= 0:
		r.Comma = '\t'
	}
	return r
}

func readAll(raw []byte) ([][]string, error) {
	var rows [][]string
	r := newReader(raw)
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv")
		}
		rows = append(rows, row)
	}
}

type columns map[string]int

func headerColumns(header []string) columns {
	c := make(columns, len(header))
	for i, h := range header {
		c[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return c
}

func (c columns) get(row []string, names ...string) string {
	for _, name := range names {
		if i, ok := c[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
	}
	return ""
}

// parseCSV reads an export whose first line names the columns.
func (p *Parser) parseCSV(d *Dump, raw []byte) error {
	rows, err := readAll(raw)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return nil
	}

	cols := headerColumns(rows[0])
	for i, row := range rows[1:] {
		n := engine.Node{
			Name:     cols.get(row, "name", "node id", "node_id"),
			IP:       cols.get(row, "ip", "address"),
			Country:  cols.get(row, "country", "cc", "country_code"),
			Provider: cols.get(row, "provider", "organization", "org"),
		}
		if n.Name == "" {
			n.Name = "Node " + strconv.Itoa(i+1)
		}
		n.Lat, _ = parseFinite(cols.get(row, "lat", "latitude"))
		n.Lon, _ = parseFinite(cols.get(row, "lon", "longitude", "lng"))
		if s, ok := parseFinite(cols.get(row, "stake")); ok && engine.ValidStake(s) {
			n.Stake = &s
		}

		tor := strings.Contains(strings.ToLower(n.IP), ".onion") || strings.EqualFold(cols.get(row, "asn"), torCountry)
		p.add(d, n, tor)
	}
	return nil
}

// Solana validators export columns.
const (
	solanaMinColumns = 20
	solanaCountry    = 3
	solanaLocation   = 4
	solanaProvider   = 5
	solanaName       = 8
	solanaStake      = 13
)

// parseSolana reads the validators export. Rows with fewer than the expected
// number of columns are skipped; unparsable stake counts as zero.
func (p *Parser) parseSolana(d *Dump, raw []byte) error {
	rows, err := readAll(raw)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return nil
	}

	for i, row := range rows[1:] {
		if len(row) < solanaMinColumns {
			continue
		}

		n := engine.Node{
			Name:     strings.TrimSpace(row[solanaName]),
			Country:  row[solanaCountry],
			Provider: strings.TrimSpace(row[solanaProvider]),
		}
		if n.Name == "" {
			n.Name = "Validator " + strconv.Itoa(i+1)
		}
		if loc := strings.Fields(row[solanaLocation]); len(loc) >= 2 {
			n.Lat, _ = parseFinite(loc[0])
			n.Lon, _ = parseFinite(loc[1])
		}
		stake, err := strconv.ParseInt(strings.TrimSpace(row[solanaStake]), 10, 64)
		if err != nil || stake < 0 {
			stake = 0
		}
		s := float64(stake)
		n.Stake = &s

		p.add(d, n, false)
	}
	return nil
}
