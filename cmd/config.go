package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	MongoURI      string
	MongoDatabase string
	AMQPURL       string

	PrinterType           string
	PrinterHost           string
	PrinterPort           int
	PrinterUSBVendorID    string
	PrinterUSBProductID   string
	PrinterConnectTimeout time.Duration
	PrinterWriteTimeout   time.Duration

	ResponderURL    string
	ResponderAPIKey string
	ResponderModel  string

	LogLevel                 string
	KitchenBackfillSchedule  string
	PrinterReconnectSchedule string
	RestaurantName           string
}

var defaults = map[string]any{
	"HTTP_PORT":                  "8080",
	"DB_HOST":                    "localhost",
	"DB_PORT":                    "5432",
	"DB_USER":                    "postgres",
	"DB_PASSWORD":                "postgres",
	"DB_NAME":                    "restaurant",
	"DB_SSLMODE":                 "disable",
	"MONGODB_URI":                "mongodb://localhost:27017",
	"MONGODB_DATABASE":           "restaurant",
	"AMQP_URL":                   "",
	"PRINTER_TYPE":               "none",
	"PRINTER_HOST":               "",
	"PRINTER_PORT":               printer.DefaultNetworkPort,
	"PRINTER_USB_VENDOR_ID":      "",
	"PRINTER_USB_PRODUCT_ID":     "",
	"PRINTER_CONNECT_TIMEOUT":    "5s",
	"PRINTER_WRITE_TIMEOUT":      "10s",
	"RESPONDER_URL":              "",
	"RESPONDER_API_KEY":          "",
	"RESPONDER_MODEL":            "gpt-4o-mini",
	"LOG_LEVEL":                  "info",
	"KITCHEN_BACKFILL_SCHEDULE":  "*/30 * * * * *",
	"PRINTER_RECONNECT_SCHEDULE": "*/15 * * * * *",
	"RESTAURANT_NAME":            "Restaurante",
}

// LoadConfig reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables win.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	return Config{
		HTTPPort:   v.GetString("HTTP_PORT"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSslMode:  v.GetString("DB_SSLMODE"),

		MongoURI:      v.GetString("MONGODB_URI"),
		MongoDatabase: v.GetString("MONGODB_DATABASE"),
		AMQPURL:       v.GetString("AMQP_URL"),

		PrinterType:           strings.ToLower(v.GetString("PRINTER_TYPE")),
		PrinterHost:           v.GetString("PRINTER_HOST"),
		PrinterPort:           v.GetInt("PRINTER_PORT"),
		PrinterUSBVendorID:    v.GetString("PRINTER_USB_VENDOR_ID"),
		PrinterUSBProductID:   v.GetString("PRINTER_USB_PRODUCT_ID"),
		PrinterConnectTimeout: v.GetDuration("PRINTER_CONNECT_TIMEOUT"),
		PrinterWriteTimeout:   v.GetDuration("PRINTER_WRITE_TIMEOUT"),

		ResponderURL:    v.GetString("RESPONDER_URL"),
		ResponderAPIKey: v.GetString("RESPONDER_API_KEY"),
		ResponderModel:  v.GetString("RESPONDER_MODEL"),

		LogLevel:                 v.GetString("LOG_LEVEL"),
		KitchenBackfillSchedule:  v.GetString("KITCHEN_BACKFILL_SCHEDULE"),
		PrinterReconnectSchedule: v.GetString("PRINTER_RECONNECT_SCHEDULE"),
		RestaurantName:           v.GetString("RESTAURANT_NAME"),
	}, nil
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// PrinterDevice is the configured printer. PRINTER_TYPE=none yields the zero Device.
func (c Config) PrinterDevice() (printer.Device, error) {
	switch c.PrinterType {
	case "", "none":
		return printer.Device{}, nil
	case "network":
		return printer.NewNetworkDevice(c.PrinterHost, c.PrinterPort)
	case "usb":
		vendorID, vendorErr := parseHexID("PRINTER_USB_VENDOR_ID", c.PrinterUSBVendorID)
		productID, productErr := parseHexID("PRINTER_USB_PRODUCT_ID", c.PrinterUSBProductID)
		if err := errors.Join(vendorErr, productErr); err != nil {
			return printer.Device{}, err
		}
		return printer.NewLocalDevice(vendorID, productID)
	}
	return printer.Device{}, errs.NewValueIsInvalidErrorWithCause("PRINTER_TYPE",
		fmt.Errorf("%q is not one of network, usb, none", c.PrinterType))
}

// SlogLevel maps LOG_LEVEL onto a slog level; unknown names mean info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseHexID(name, raw string) (uint16, error) {
	raw = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "0x")
	if raw == "" {
		return 0, errs.NewValueIsRequiredError(name)
	}
	v, err := strconv.ParseUint(raw, 16, 16)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return uint16(v), nil
}
