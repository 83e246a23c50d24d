// Copyright 2025 The freshwax Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/freshwax/submit/pkg/fxlog"
)

// StoreConfig binds the object-storage backend. All four of Endpoint,
// AccessKey, SecretKey and Bucket are required at process start.
type StoreConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"useSSL"`
}

// MailConfig binds the Resend notification transport.
type MailConfig struct {
	APIKey     string `mapstructure:"apiKey"`
	FromEmail  string `mapstructure:"fromEmail"`
	AdminEmail string `mapstructure:"adminEmail"`
}

// SessionConfig enables the optional redis folder-key alias store when
// RedisAddr is set. Left empty, the service keeps no session state at all.
type SessionConfig struct {
	RedisAddr string `mapstructure:"redisAddr"`
}

// LimitsConfig carries the storage admission ceilings in bytes.
type LimitsConfig struct {
	MaxFileBytes  int64 `mapstructure:"maxFileBytes"`
	MaxTotalBytes int64 `mapstructure:"maxTotalBytes"`
}

type Config struct {
	Addr     string `mapstructure:"addr"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	LogLevel string `mapstructure:"logLevel"`

	Store   StoreConfig   `mapstructure:"store"`
	Mail    MailConfig    `mapstructure:"mail"`
	Session SessionConfig `mapstructure:"session"`
	Limits  LimitsConfig  `mapstructure:"limits"`
}

// Validate reports configuration the process must not start without.
// Storage and mail misconfiguration should surface here, not mid-upload.
func (c Config) Validate() error {
	var missing []string
	if c.Store.Endpoint == "" {
		missing = append(missing, "store.endpoint")
	}
	if c.Store.AccessKey == "" {
		missing = append(missing, "store.accessKey")
	}
	if c.Store.SecretKey == "" {
		missing = append(missing, "store.secretKey")
	}
	if c.Store.Bucket == "" {
		missing = append(missing, "store.bucket")
	}
	if c.Mail.APIKey == "" {
		missing = append(missing, "mail.apiKey")
	}
	if c.Mail.AdminEmail == "" {
		missing = append(missing, "mail.adminEmail")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Limits.MaxFileBytes <= 0 || c.Limits.MaxTotalBytes <= 0 {
		return errors.New("limits.maxFileBytes and limits.maxTotalBytes must be positive")
	}
	return nil
}

var (
	once sync.Once

	mu sync.RWMutex

	config Config
)

func InitConfig() error {
	var initErr error
	once.Do(func() {
		initErr = LoadAndWatch()
	})
	return initErr
}

func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return config
}

func LoadAndWatch() error {
	pflag.String("addr", "", "HTTP service address (e.g., '127.0.0.1:8080')")
	pflag.String("certFile", "", "Path to the TLS certificate file.")
	pflag.String("keyFile", "", "Path to the TLS private key file.")
	pflag.String("logLevel", "", "Log level (debug|info|warn|error|fatal).")
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return fmt.Errorf("failed to bind pflags: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/freshwax/")

	viper.SetEnvPrefix("FRESHWAX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("addr", "127.0.0.1:8080")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("store.useSSL", true)
	viper.SetDefault("limits.maxFileBytes", 200*1024*1024)
	viper.SetDefault("limits.maxTotalBytes", int64(9.5*1024*1024*1024))

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fxlog.Infof("Config file not found.")
		} else {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	}

	mu.Lock()
	if err := viper.Unmarshal(&config); err != nil {
		mu.Unlock()
		return fmt.Errorf("the initial configuration cannot be decoded into the struct: %w", err)
	}
	mu.Unlock()

	viper.OnConfigChange(func(e fsnotify.Event) {
		fxlog.Infof("Config file changed: %s. Reloading...", e.Name)

		mu.Lock()
		defer mu.Unlock()

		if err := viper.Unmarshal(&config); err != nil {
			fxlog.Errorf("Error while reloading config: %v", err)
			return
		}
		newLogLevel, err := fxlog.ParseLevel(config.LogLevel)
		if err != nil {
			fxlog.Warnf("New log level in config is invalid: %v. Keeping previous level.", err)
		} else {
			fxlog.SetLevel(newLogLevel)
			fxlog.Infof("Log level reloaded successfully to: %s", config.LogLevel)
		}
	})
	viper.WatchConfig()

	return nil
}
