package weather

import (
	"errors"
	"math"
	"time"
)

const (
	IconRain  = "rain"
	IconCloud = "cloud"

	// TimeLayout is the format of the dt_txt field.
	TimeLayout = "2006-01-02 15:04:05"

	kelvinOffset = 273.15
)

var (
	ErrEmptyCity         = errors.New("city name is required")
	ErrMalformedResponse = errors.New("malformed forecast response")
)

// Entry is one timestamped forecast point.
type Entry struct {
	Timestamp   string    `json:"dt_txt"`
	Time        time.Time `json:"time"`
	Day         string    `json:"day"`
	Description string    `json:"description"`
	TempC       float64   `json:"temp_c"`
	WindSpeed   float64   `json:"wind_speed"`
	Icon        string    `json:"icon"`
}

// KelvinToCelsius converts and rounds to two decimals.
func KelvinToCelsius(k float64) float64 {
	return math.Round((k-kelvinOffset)*100) / 100
}

func iconFor(description string) string {
	if description == "light rain" {
		return IconRain
	}
	return IconCloud
}

type forecastResponse struct {
	List *[]forecastItem `json:"list"`
}

type forecastItem struct {
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type apiError struct {
	Message string `json:"message"`
}

func (it forecastItem) entry() (Entry, error) {
	if len(it.Weather) == 0 {
		return Entry{}, errors.Join(ErrMalformedResponse, errors.New("entry has no weather description"))
	}
	if it.Main.Temp == nil {
		return Entry{}, errors.Join(ErrMalformedResponse, errors.New("entry has no temperature"))
	}
	ts, err := time.Parse(TimeLayout, it.DtTxt)
	if err != nil {
		return Entry{}, errors.Join(ErrMalformedResponse, err)
	}

	desc := it.Weather[0].Description
	return Entry{
		Timestamp:   it.DtTxt,
		Time:        ts,
		Day:         ts.Weekday().String(),
		Description: desc,
		TempC:       KelvinToCelsius(*it.Main.Temp),
		WindSpeed:   it.Wind.Speed,
		Icon:        iconFor(desc),
	}, nil
}
