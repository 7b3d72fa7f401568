package domain

import "context"

// Logical endpoint names of the BioSIM web API.
const (
	APINormals          = "Normals"
	APIWeatherGenerator = "WeatherGenerator"
	APIModel            = "Model"
	APIModelList        = "ModelList"
)

// Fetcher issues one request to a named endpoint and returns the reply text.
type Fetcher interface {
	Fetch(ctx context.Context, api, query string) (string, error)
}
