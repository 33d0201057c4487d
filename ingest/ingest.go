// Package ingest turns raw node dumps published by block explorers into the
// node lists the engine analyzes.
//
// Supported inputs:
//   - bitcoin: the bitnodes snapshot object, a JSON array of nodes or a CSV export
//   - ethereum: a JSON array of nodes or a CSV export
//   - solana: the validators CSV export (country, location, provider, name and stake columns)
//   - anything else: a JSON array of engine nodes or a generic CSV export
package ingest

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/stakestar/nodelyzer/countries"
	"github.com/stakestar/nodelyzer/engine"
)

// torCountry is the pseudo country code explorers use for nodes reachable only over Tor.
const torCountry = "TOR"

// Dump is the parsed form of a network dump.
type Dump struct {
	Network   string         `json:"network"`
	Nodes     []engine.Node  `json:"nodes"`
	Countries map[string]int `json:"countries"`
	Tor       int            `json:"tor"`
}

type Parser struct {
	countries *countries.List
}

func NewParser(list *countries.List) *Parser {
	return &Parser{countries: list}
}

// Parse decodes raw according to the network's dump format. An empty input
// yields an empty dump.
func (p *Parser) Parse(network string, raw []byte) (*Dump, error) {
	network = strings.ToLower(strings.TrimSpace(network))
	d := &Dump{
		Network:   network,
		Nodes:     []engine.Node{},
		Countries: make(map[string]int),
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return d, nil
	}

	var err error
	switch network {
	case engine.NetworkBitcoin:
		err = p.parseBitcoin(d, raw)
	case engine.NetworkEthereum:
		err = p.parseJSONOrCSV(d, raw)
	case engine.NetworkSolana:
		err = p.parseSolana(d, raw)
	default:
		err = p.parseGeneric(d, raw)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s dump", network)
	}
	return d, nil
}

func (p *Parser) parseJSONOrCSV(d *Dump, raw []byte) error {
	if raw[0] == '[' {
		return p.parseJSONArray(d, raw)
	}
	return p.parseCSV(d, raw)
}

// add normalizes the node's country and records it in the dump.
func (p *Parser) add(d *Dump, n engine.Node, tor bool) {
	code, isTor := p.country(n.Country)
	if isTor || tor {
		d.Tor++
	}
	n.Country = code
	if code != "" {
		d.Countries[code]++
	}
	d.Nodes = append(d.Nodes, n)
}

// country maps a raw country field to a lower-case code. Unknown names are kept
// lower-cased; the Tor pseudo country maps to no country.
func (p *Parser) country(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.EqualFold(raw, torCountry) {
		return "", true
	}
	if p.countries != nil {
		if code, ok := p.countries.Normalize(raw); ok {
			return code, false
		}
	}
	return strings.ToLower(raw), false
}

// parseFinite parses a float, rejecting Inf and NaN.
func parseFinite(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
