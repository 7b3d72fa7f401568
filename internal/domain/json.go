package domain

import "encoding/json"

// siteJSON is the wire form of a Site. An unknown elevation is omitted
// since JSON has no NaN.
type siteJSON struct {
	Lat  float64  `json:"lat"`
	Lon  float64  `json:"long"`
	Elev *float64 `json:"elev,omitempty"`
}

func toSiteJSON(s Site) siteJSON {
	out := siteJSON{Lat: s.Latitude(), Lon: s.Longitude()}
	if HasElevation(s) {
		e := s.Elevation()
		out.Elev = &e
	}
	return out
}

// MarshalJSON omits the elevation when it is unknown.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(toSiteJSON(l))
}

// UnmarshalJSON reads a missing or null elevation as unknown.
func (l *Location) UnmarshalJSON(data []byte) error {
	var w siteJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*l = NewLocation(w.Lat, w.Lon)
	if w.Elev != nil {
		l.Elev = *w.Elev
	}
	return nil
}

// MarshalText makes variables encode by wire code, including as map keys.
func (v Variable) MarshalText() ([]byte, error) {
	return []byte(v.Code()), nil
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (n Normals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Site       siteJSON    `json:"site"`
		Monthly    MonthMap    `json:"monthly"`
		Aggregated VariableMap `json:"aggregated,omitempty"`
	}{toSiteJSON(n.Site), n.Monthly, n.Aggregated})
}

func (c ClimateSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Site   siteJSON        `json:"site"`
		Values map[int]float64 `json:"values"`
	}{toSiteJSON(c.Site), c.Values})
}
