package geodata

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/maxminddb-golang"
	"github.com/pkg/errors"

	"github.com/stakestar/nodelyzer/engine"
)

type GeoData struct {
	Country struct {
		IsoCode string            `maxminddb:"iso_code"`
		Names   map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	Location struct {
		Latitude  float64 `maxminddb:"latitude"`
		Longitude float64 `maxminddb:"longitude"`
	} `maxminddb:"location"`
}

type reader interface {
	Lookup(ip net.IP, result interface{}) error
	Close() error
}

type GeoIP2DB struct {
	db reader
}

func NewGeoIP2DB(databaseFilePath string) (*GeoIP2DB, error) {
	db, err := maxminddb.Open(databaseFilePath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening geo database %s", databaseFilePath)
	}
	return &GeoIP2DB{db}, nil
}

func (g *GeoIP2DB) Close() error {
	return g.db.Close()
}

// GetGeoDataFromIPAddress accepts a bare IP or an "ip:port" address.
func (g *GeoIP2DB) GetGeoDataFromIPAddress(ipAddress string) (*GeoData, error) {
	ip := net.ParseIP(hostOnly(ipAddress))
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address: %s", ipAddress)
	}

	var geoData GeoData
	err := g.db.Lookup(ip, &geoData)
	if err != nil {
		return nil, err
	}

	return &geoData, nil
}

// FillCountries sets the country, and the coordinates when missing, of every
// node that has an IP address but no country. It returns the number of nodes
// resolved; addresses that cannot be resolved are left untouched.
func (g *GeoIP2DB) FillCountries(nodes []engine.Node) int {
	resolved := 0
	for i := range nodes {
		n := &nodes[i]
		if strings.TrimSpace(n.Country) != "" || n.IP == "" {
			continue
		}
		geo, err := g.GetGeoDataFromIPAddress(n.IP)
		if err != nil || geo.Country.IsoCode == "" {
			continue
		}
		n.Country = strings.ToLower(geo.Country.IsoCode)
		if n.Lat == 0 && n.Lon == 0 {
			n.Lat = geo.Location.Latitude
			n.Lon = geo.Location.Longitude
		}
		resolved++
	}
	return resolved
}

func hostOnly(address string) string {
	address = strings.TrimSpace(address)
	if host, _, err := net.SplitHostPort(address); err == nil {
		return host
	}
	return strings.Trim(address, "[]")
}
