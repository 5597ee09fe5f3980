package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "scrapledger", cfg.MongoDB.DBName)
	assert.Equal(t, "AMC Junk Shop", cfg.Shop.CompanyName)
	assert.Equal(t, "en", cfg.Shop.DefaultLanguage)
	assert.Equal(t, "0 21 * * *", cfg.Summary.CronSchedule)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("COMPANY_NAME", "Bayside Scrap")
	t.Setenv("UNLOCK_CODE", "01021129")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "Bayside Scrap", cfg.Shop.CompanyName)
	assert.Equal(t, "01021129", cfg.Shop.UnlockCode)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: "8080"},
			MongoDB: MongoDBConfig{URI: "mongodb://localhost:27017", DBName: "scrapledger"},
			Shop:    ShopConfig{CompanyName: "AMC Junk Shop"},
			Summary: SummaryConfig{CronSchedule: "0 21 * * *", Timezone: "Asia/Manila"},
		}
	}

	require.NoError(t, valid().Validate())

	c := valid()
	c.MongoDB.URI = ""
	assert.Error(t, c.Validate())

	c = valid()
	c.Shop.CompanyName = ""
	assert.Error(t, c.Validate())

	c = valid()
	c.Sheets.SpreadsheetID = "abc"
	assert.Error(t, c.Validate(), "mirror settings must come together")

	c = valid()
	c.Sheets = SheetsConfig{CredentialsPath: "creds.json", SpreadsheetID: "abc"}
	assert.NoError(t, c.Validate())

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
