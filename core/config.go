package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName      string
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		AuthToken    string
		RollbarToken string

		Server    ServerConfig
		Database  DatabaseConfig
		Classroom ClassroomConfig
		Roster    RosterConfig
	}

	ServerConfig struct {
		Host            string
		Port            int
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine     string
		Host       string
		Port       int
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	ClassroomConfig struct {
		BaseURL string
		Token   string
		Timeout time.Duration
	}

	// RosterConfig tunes the weekly group allocation.
	RosterConfig struct {
		GroupSize     int // students per group while grouped seating lasts
		SoloThreshold int // row index past which each student gets their own group
		NoShowGroup   int // fixed group number assigned to absent students
	}
)

func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("build", "dev")
	v.SetDefault("authToken", "change-me")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "darasa")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "darasa")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("classroom.baseURL", "https://api.github.com/classrooms")
	v.SetDefault("classroom.token", "")
	v.SetDefault("classroom.timeout", 10*time.Second)

	v.SetDefault("roster.groupSize", 6)
	v.SetDefault("roster.soloThreshold", 30)
	v.SetDefault("roster.noShowGroup", 6)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AuthToken:    v.GetString("authToken"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetInt("database.port"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			Name:       v.GetString("database.name"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Classroom: ClassroomConfig{
			BaseURL: v.GetString("classroom.baseURL"),
			Token:   v.GetString("classroom.token"),
			Timeout: v.GetDuration("classroom.timeout"),
		},
		Roster: RosterConfig{
			GroupSize:     v.GetInt("roster.groupSize"),
			SoloThreshold: v.GetInt("roster.soloThreshold"),
			NoShowGroup:   v.GetInt("roster.noShowGroup"),
		},
	}
}
