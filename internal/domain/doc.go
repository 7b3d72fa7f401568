// Package domain models the BioSIM climate service: sites, climate variables,
// normal periods, generation signatures and the error taxonomy shared by the
// transport, the parser and the client.
//
// # Service
//
// BioSIM serves 30-year climate normals and stochastically generated daily
// weather, and applies phenology or degree-day models to generated weather.
// It is reached over plain HTTP GET at two base URLs: a public one and a LAN
// fallback. Endpoints are fixed logical names appended to the base URL:
//
//	Normals           monthly normals for a period
//	WeatherGenerator  generates weather, replies with one reference id per site
//	Model             applies a model to previously generated weather
//	ModelList         newline-separated list of valid model names
//
// # Query encoding
//
// Multi-site requests are batched. Coordinates travel as three parallel
// lists joined by the literal token "%20":
//
//	lat=46.5%2048.1&long=-71.2%20-68.5&elev=120%20NaN
//
// The n-th token of each list belongs to the n-th site. An unknown elevation
// is spelled "NaN" so the lists stay aligned. Variables use their wire codes,
// also "%20"-joined (var=TN%20P). compress=0 is always sent.
//
// # Replies
//
// Replies are line oriented and carry no site identifiers. Sites are matched
// back by position only, so the order of sites must be preserved end to end.
//
//	Normals:           "Month,TMIN_MN,PRCP_TT" header per site, then "1,-12.3,80.1" rows
//	WeatherGenerator:  one line, one whitespace-separated id (or "error...") per site
//	Model:             "Year,DD" header per site, then "1981,1432.7" rows
//
// Any line starting with "error" (any case) is a server-side failure and is
// surfaced verbatim through [ServerError].
//
// # Aggregation
//
// Normals can be reduced over a set of months. Additive variables such as
// precipitation are summed; the others are averaged with each month weighted
// by its day count (February has 28 days).
package domain
