package controller

import (
	"net/http"

	"github.com/bassista/paddock/internal/config"
	"github.com/gin-gonic/gin"
)

// FeedResponse describes one configured feed.
type FeedResponse struct {
	URL    string `json:"url"`
	Slot   string `json:"slot"`
	Expiry string `json:"expiry"`
}

// ConfigurationResponse represents the configuration response structure for the API.
type ConfigurationResponse struct {
	Feeds         map[string]FeedResponse `json:"feeds"`
	CacheBackend  string                  `json:"cacheBackend"`
	Timezone      string                  `json:"timezone"`
	AssetsBaseURL string                  `json:"assetsBaseUrl"`
	IncludeFlag   bool                    `json:"includeFlag"`
}

// ConfigurationController handles configuration-related API endpoints.
type ConfigurationController struct {
	config *config.Config
}

// NewConfigurationController creates a new ConfigurationController.
func NewConfigurationController(cfg *config.Config) *ConfigurationController {
	return &ConfigurationController{
		config: cfg,
	}
}

// GetConfiguration returns the feed and display settings widget hosts need.
func (cc *ConfigurationController) GetConfiguration(c *gin.Context) {
	feed := func(f config.FeedConfig) FeedResponse {
		return FeedResponse{URL: f.URL, Slot: f.Slot, Expiry: f.Expiry.String()}
	}
	response := ConfigurationResponse{
		Feeds: map[string]FeedResponse{
			"schedule":             feed(cc.config.Feeds.Schedule),
			"driverStandings":      feed(cc.config.Feeds.DriverStandings),
			"constructorStandings": feed(cc.config.Feeds.ConstructorStandings),
		},
		CacheBackend:  cc.config.Cache.Backend,
		Timezone:      cc.config.Display.Timezone,
		AssetsBaseURL: cc.config.Display.AssetsBaseURL,
		IncludeFlag:   cc.config.Display.IncludeFlag,
	}
	c.JSON(http.StatusOK, response)
}
