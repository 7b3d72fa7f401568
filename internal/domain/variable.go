package domain

import (
	"fmt"
	"strings"
)

// Variable is a climate variable known to the BioSIM service.
type Variable int

const (
	VarTN  Variable = iota // minimum air temperature (°C)
	VarT                   // mean air temperature (°C)
	VarTX                  // maximum air temperature (°C)
	VarP                   // precipitation (mm)
	VarTD                  // dew point temperature (°C)
	VarH                   // relative humidity (%)
	VarWS                  // wind speed at 10 m (km/h)
	VarWD                  // wind direction (°)
	VarR                   // solar radiation (MJ/m²)
	VarZ                   // atmospheric pressure (hPa)
	VarS                   // snow precipitation (mm)
	VarSD                  // snow depth (cm)
	VarSWE                 // snow water equivalent (mm)
	VarWS2                 // wind speed at 2 m (km/h)
)

type variableInfo struct {
	code     string
	field    string
	additive bool
}

// variables is indexed by Variable. An empty field means the normals
// endpoint does not publish that variable.
var variables = [...]variableInfo{
	VarTN:  {code: "TN", field: "TMIN_MN"},
	VarT:   {code: "T", field: "TAIR_MN"},
	VarTX:  {code: "TX", field: "TMAX_MN"},
	VarP:   {code: "P", field: "PRCP_TT", additive: true},
	VarTD:  {code: "TD", field: "TDEX_MN"},
	VarH:   {code: "H", field: "RELH_MN"},
	VarWS:  {code: "WS", field: "WNDS_MN"},
	VarWD:  {code: "WD"},
	VarR:   {code: "R", additive: true},
	VarZ:   {code: "Z"},
	VarS:   {code: "S", additive: true},
	VarSD:  {code: "SD"},
	VarSWE: {code: "SWE", additive: true},
	VarWS2: {code: "WS2"},
}

// AllVariables lists every variable in declaration order.
func AllVariables() []Variable {
	out := make([]Variable, len(variables))
	for i := range variables {
		out[i] = Variable(i)
	}
	return out
}

// Valid reports whether v is one of the declared variables.
func (v Variable) Valid() bool {
	return v >= 0 && int(v) < len(variables)
}

// Code is the wire code sent in the var= parameter.
func (v Variable) Code() string {
	if !v.Valid() {
		return fmt.Sprintf("Variable(%d)", int(v))
	}
	return variables[v].code
}

// Field is the column name used by the normals endpoint, or "" when unsupported.
func (v Variable) Field() string {
	if !v.Valid() {
		return ""
	}
	return variables[v].field
}

// Additive reports whether multi-month aggregation sums the variable
// rather than averaging it by day count.
func (v Variable) Additive() bool {
	return v.Valid() && variables[v].additive
}

func (v Variable) String() string { return v.Code() }

// ParseVariable resolves a wire code (case-insensitive).
func ParseVariable(code string) (Variable, error) {
	for i, info := range variables {
		if strings.EqualFold(info.code, strings.TrimSpace(code)) {
			return Variable(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown variable %q", ErrInvalidArgument, code)
}

// ParseVariables resolves a list of wire codes, preserving order.
func ParseVariables(codes []string) ([]Variable, error) {
	out := make([]Variable, 0, len(codes))
	for _, c := range codes {
		v, err := ParseVariable(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
