package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"codeberg.org/mutker/ministatus/internal/errors"
)

const (
	ErrInvalidEndpoint = errors.ErrorCode("weather_invalid_endpoint")
	ErrRequest         = errors.ErrorCode("weather_request_failed")
	ErrStatus          = errors.ErrorCode("weather_unexpected_status")
	ErrDecode          = errors.ErrorCode("weather_decode_failed")
)

const maxResponseBodySize = 1 << 20 // 1MB

// Forecast is the part of today's forecast shown in the status line
type Forecast struct {
	Rain    int
	MinTemp int
	MaxTemp int
}

func (f Forecast) String() string {
	return fmt.Sprintf("☂️ %d%% ❄ %d° ☀️ %d°", f.Rain, f.MinTemp, f.MaxTemp)
}

// wttr.in "j1" format; numbers are encoded as strings
type response struct {
	Weather []struct {
		Hourly []hourly `json:"hourly"`
	} `json:"weather"`
}

type hourly struct {
	TempC        int `json:"tempC,string"`
	Time         int `json:"time,string"`
	ChanceOfRain int `json:"chanceofrain,string"`
	ChanceOfSnow int `json:"chanceofsnow,string"`
}

// daytime hours, in wttr.in's HHMM notation
const (
	dayStart = 900
	dayEnd   = 2100
)

// Client fetches forecasts from a wttr.in compatible endpoint
type Client struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{},
		endpoint:   endpoint,
		timeout:    timeout,
	}
}

// Fetch downloads and summarises today's forecast. ok is false when the
// response holds no usable daytime data.
func (c *Client) Fetch(ctx context.Context) (Forecast, bool, error) {
	errFactory := errors.New()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return Forecast{}, false, errFactory.Wrap(ErrInvalidEndpoint, err)
	}
	q := u.Query()
	q.Set("format", "j1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Forecast{}, false, errFactory.Wrap(ErrInvalidEndpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = errFactory.Wrap(errors.ErrTimeout, err)
		}
		return Forecast{}, false, errFactory.Wrap(ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Forecast{}, false, errFactory.WithData(ErrStatus, resp.Status)
	}

	var body response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize)).Decode(&body); err != nil {
		return Forecast{}, false, errFactory.Wrap(ErrDecode, err)
	}

	f, ok := summarise(body)

	return f, ok, nil
}

func summarise(r response) (Forecast, bool) {
	if len(r.Weather) == 0 {
		return Forecast{}, false
	}

	var f Forecast
	found := false
	for _, h := range r.Weather[0].Hourly {
		if h.Time < dayStart || h.Time > dayEnd {
			continue
		}

		rain := max(h.ChanceOfRain, h.ChanceOfSnow)
		if !found {
			f = Forecast{Rain: rain, MinTemp: h.TempC, MaxTemp: h.TempC}
			found = true
			continue
		}

		f.Rain = max(f.Rain, rain)
		f.MinTemp = min(f.MinTemp, h.TempC)
		f.MaxTemp = max(f.MaxTemp, h.TempC)
	}

	return f, found
}
