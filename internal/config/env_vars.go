package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	regionsEnvVar = "REGIONS"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8900")
	if port != "" || port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Go Cloud Mock")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetRegions returns the regions every plugin is registered in, as a
// comma-separated list (e.g. "ORD,DFW").
func (EnvVars) GetRegions() []string {
	raw := GetEnv(regionsEnvVar, "ORD")
	regions := make([]string, 0)
	for _, region := range strings.Split(raw, ",") {
		if region = strings.TrimSpace(region); region != "" {
			regions = append(regions, region)
		}
	}
	return regions
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
