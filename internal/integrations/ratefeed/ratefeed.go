package ratefeed

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/okonjo-dev/fx-tracker/internal/config"
	"github.com/okonjo-dev/fx-tracker/internal/models"
)

// Client fetches daily exchange rates from an XML feed. Rates are quoted in
// the home currency per one unit of the foreign currency.
type Client struct {
	url    string
	home   models.Currency
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new rate feed client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:  cfg.RateFeedURL,
		home: models.Currency(cfg.HomeCurrency),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// FetchDaily retrieves the current daily rates document and maps it to
// observations. The feed's own quote date is used, not the fetch time.
func (c *Client) FetchDaily() ([]models.RateObservation, error) {
	req, err := http.NewRequest(http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	// Log the raw XML response for debugging
	c.log.Debugf("rate feed XML response: %s", string(body))

	return c.parseDocument(body)
}

// parseDocument extracts observations from a daily rates document:
//
//	<Rates Date="2026-09-01">
//	  <Rate Code="USD" Nominal="1" Value="1528.34"/>
//	</Rates>
func (c *Client) parseDocument(rawBody []byte) ([]models.RateObservation, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	root := doc.SelectElement("Rates")
	if root == nil {
		return nil, fmt.Errorf("no Rates element found in XML")
	}

	date, err := time.Parse("2006-01-02", root.SelectAttrValue("Date", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed date: %v", err)
	}

	elements := root.SelectElements("Rate")
	if len(elements) == 0 {
		return nil, fmt.Errorf("no rate data found in XML")
	}

	var observations []models.RateObservation
	for _, el := range elements {
		code := models.Currency(el.SelectAttrValue("Code", ""))
		if !code.Valid() || code == c.home {
			c.log.Warnf("skipping rate entry with code %q", code)
			continue
		}

		value, err := strconv.ParseFloat(el.SelectAttrValue("Value", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %v", code, err)
		}

		nominal := 1.0
		if raw := el.SelectAttrValue("Nominal", ""); raw != "" {
			nominal, err = strconv.ParseFloat(raw, 64)
			if err != nil || nominal <= 0 {
				return nil, fmt.Errorf("failed to parse nominal for %s: %v", code, err)
			}
		}

		observations = append(observations, models.RateObservation{
			Currency: code,
			Date:     date,
			Rate:     value / nominal,
		})
	}

	if len(observations) == 0 {
		return nil, fmt.Errorf("no usable rate entries in XML")
	}

	c.log.Infof("Retrieved %d daily rates for %s", len(observations), date.Format("2006-01-02"))
	return observations, nil
}
