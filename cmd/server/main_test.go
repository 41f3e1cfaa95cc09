package main

import (
	"testing"

	"github.com/Brownie44l1/agro-api/internal/weather"
	"github.com/stretchr/testify/assert"
)

func TestTopLabels(t *testing.T) {
	scores := map[string]float32{"Healthy": 0.1, "Powdery": 0.6, "Rust": 0.3}

	assert.Equal(t, []string{"Powdery", "Rust"}, topLabels(scores, 2))
	assert.Equal(t, []string{"Powdery", "Rust", "Healthy"}, topLabels(scores, -1))
	assert.Equal(t, []string{"Powdery", "Rust", "Healthy"}, topLabels(scores, 10))
}

func TestForecastMarkdown(t *testing.T) {
	md := forecastMarkdown("Pune", []weather.Entry{
		{Timestamp: "2024-06-01 12:00:00", Day: "Saturday", Description: "light rain", TempC: 21.5, WindSpeed: 4.1, Icon: weather.IconRain},
	})

	assert.Contains(t, md, "# Weather forecast for Pune")
	assert.Contains(t, md, "## 🌧️ 2024-06-01 12:00:00")
	assert.Contains(t, md, "- Temperature: 21.50 °C")
	assert.Contains(t, md, "- Wind Speed: 4.1 m/s")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "classify", "forecast"} {
		assert.True(t, names[want], want)
	}
}
