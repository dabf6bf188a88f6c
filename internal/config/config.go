package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	SQLite struct {
		Path string
	} `mapstructure:"sqlite"`

	Inventory struct {
		// Source behavior: deductions are applied unchecked and stock may go
		// negative. Set to false to refuse any mutation that would.
		AllowNegativeStock bool `mapstructure:"allow_negative_stock"`
		ExpiryWarnDays     int  `mapstructure:"expiry_warn_days"`
	} `mapstructure:"inventory"`

	Excel struct {
		ExportDir string `mapstructure:"export_dir"`
	} `mapstructure:"excel"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Asia/Seoul")
	v.SetDefault("sqlite.path", "cosmetic_inventory.db")
	v.SetDefault("inventory.allow_negative_stock", true)
	v.SetDefault("inventory.expiry_warn_days", 30)
	v.SetDefault("excel.export_dir", ".")

	var c Config
	if err := v.ReadInConfig(); err != nil {
		// Defaults cover everything; a missing file is not an error.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
