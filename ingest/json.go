package ingest

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/stakestar/nodelyzer/engine"
)

type record map[string]interface{}

func (r record) str(keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func (r record) num(keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := r[k].(type) {
		case float64:
			return v, true
		case string:
			if f, ok := parseFinite(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

func (p *Parser) parseJSONArray(d *Dump, raw []byte) error {
	var items []record
	if err := json.Unmarshal(raw, &items); err != nil {
		return errors.Wrap(err, "decoding node array")
	}

	for i, it := range items {
		n := engine.Node{
			Name:     it.str("name", "Node Id", "node_id"),
			IP:       it.str("ip", "address"),
			Country:  it.str("country", "Country", "cc", "country_code"),
			Provider: it.str("provider", "Provider", "organization", "org"),
		}
		if n.Name == "" {
			n.Name = "Node " + strconv.Itoa(i+1)
		}
		n.Lat, _ = it.num("lat", "latitude")
		n.Lon, _ = it.num("lon", "longitude", "lng")
		if s, ok := it.num("stake"); ok && engine.ValidStake(s) {
			n.Stake = &s
		}
		tor := strings.Contains(strings.ToLower(n.IP), ".onion") || strings.EqualFold(it.str("asn"), torCountry)
		p.add(d, n, tor)
	}
	return nil
}

// bitnodes snapshot row indexes.
const (
	bitnodesCountry      = 7
	bitnodesLatitude     = 8
	bitnodesLongitude    = 9
	bitnodesASN          = 11
	bitnodesOrganization = 12
)

type bitnodesSnapshot struct {
	Nodes map[string][]interface{} `json:"nodes"`
}

func (p *Parser) parseBitcoin(d *Dump, raw []byte) error {
	switch raw[0] {
	case '[':
		return p.parseJSONArray(d, raw)
	case '{':
		var snap bitnodesSnapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return errors.Wrap(err, "decoding bitnodes snapshot")
		}
		if snap.Nodes == nil {
			return errors.New("bitnodes snapshot has no nodes object")
		}

		addrs := make([]string, 0, len(snap.Nodes))
		for addr := range snap.Nodes {
			addrs = append(addrs, addr)
		}
		sort.Strings(addrs)

		for i, addr := range addrs {
			row := snap.Nodes[addr]
			asn := field(row, bitnodesASN)
			country := field(row, bitnodesCountry)
			if country == "" && strings.EqualFold(asn, torCountry) {
				country = asn
			}
			n := engine.Node{
				Name:     "Node " + strconv.Itoa(i+1),
				IP:       addr,
				Country:  country,
				Provider: field(row, bitnodesOrganization),
			}
			n.Lat, _ = parseFinite(field(row, bitnodesLatitude))
			n.Lon, _ = parseFinite(field(row, bitnodesLongitude))

			tor := strings.Contains(strings.ToLower(addr), ".onion") || strings.EqualFold(asn, torCountry)
			p.add(d, n, tor)
		}
		return nil
	default:
		return p.parseCSV(d, raw)
	}
}

func field(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// parseGeneric accepts a JSON array of nodes or any CSV export with a header.
func (p *Parser) parseGeneric(d *Dump, raw []byte) error {
	return p.parseJSONOrCSV(d, raw)
}
