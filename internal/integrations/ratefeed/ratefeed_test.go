package ratefeed

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okonjo-dev/fx-tracker/internal/models"
)

func newTestClient() *Client {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &Client{home: "NGN", log: log}
}

func TestParseDocument(t *testing.T) {
	client := newTestClient()

	t.Run("parses rates and applies nominal", func(t *testing.T) {
		doc := []byte(`<?xml version="1.0" encoding="utf-8"?>
<Rates Date="2026-09-01">
	<Rate Code="USD" Nominal="1" Value="1528.34"/>
	<Rate Code="JPY" Nominal="100" Value="1034.50"/>
	<Rate Code="EUR" Value="1785.20"/>
</Rates>`)
		observations, err := client.parseDocument(doc)
		require.NoError(t, err)
		require.Len(t, observations, 3)

		byCode := map[models.Currency]models.RateObservation{}
		for _, obs := range observations {
			byCode[obs.Currency] = obs
		}
		assert.InDelta(t, 1528.34, byCode["USD"].Rate, 1e-9)
		assert.InDelta(t, 10.345, byCode["JPY"].Rate, 1e-9)
		assert.InDelta(t, 1785.20, byCode["EUR"].Rate, 1e-9)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), byCode["USD"].Date)
	})

	t.Run("skips the home currency and bad codes", func(t *testing.T) {
		doc := []byte(`<Rates Date="2026-09-01">
	<Rate Code="NGN" Value="1"/>
	<Rate Code="usd" Value="10"/>
	<Rate Code="GBP" Value="2045.11"/>
</Rates>`)
		observations, err := client.parseDocument(doc)
		require.NoError(t, err)
		require.Len(t, observations, 1)
		assert.Equal(t, models.Currency("GBP"), observations[0].Currency)
	})

	t.Run("rejects malformed documents", func(t *testing.T) {
		cases := map[string][]byte{
			"not xml":      []byte("{}"),
			"wrong root":   []byte(`<Other Date="2026-09-01"/>`),
			"missing date": []byte(`<Rates><Rate Code="USD" Value="10"/></Rates>`),
			"no entries":   []byte(`<Rates Date="2026-09-01"></Rates>`),
			"bad value":    []byte(`<Rates Date="2026-09-01"><Rate Code="USD" Value="abc"/></Rates>`),
			"only home":    []byte(`<Rates Date="2026-09-01"><Rate Code="NGN" Value="1"/></Rates>`),
		}
		for name, doc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := client.parseDocument(doc)
				assert.Error(t, err)
			})
		}
	})
}
