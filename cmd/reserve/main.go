// Command reserve fills in a reservation form from flags and submits it to a
// running API, the same way the website form does.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/letiskotransfer/transfer-api/internal/form"
	"github.com/letiskotransfer/transfer-api/pkg/httpclient"
	"github.com/letiskotransfer/transfer-api/pkg/locale"
	"github.com/letiskotransfer/transfer-api/pkg/logger"
	"github.com/letiskotransfer/transfer-api/pkg/reservationclient"
)

const (
	flagAPIURL       = "api-url"
	flagLocale       = "locale"
	flagTimeout      = "timeout"
	flagReturn       = "return"
	flagPickupExtra  = "pickup-extra"
	flagDropoffExtra = "dropoff-extra"
	flagVerbose      = "verbose"
)

// controlFlags maps flag names to form controls
var controlFlags = map[string]string{
	"first-name":   form.FieldFirstName,
	"last-name":    form.FieldLastName,
	"phone":        form.FieldPhone,
	"email":        form.FieldEmail,
	"pickup":       form.FieldPickup,
	"dropoff":      form.FieldDropoff,
	"date":         form.FieldDate,
	"time":         form.FieldTime,
	"flight":       form.FieldFlight,
	"pax":          form.FieldPax,
	"bags-checked": form.FieldBagsChecked,
	"bags-carry":   form.FieldBagsCarry,
	"notes":        form.FieldNotes,
	"r-pickup":     form.FieldReturnPickup,
	"r-dropoff":    form.FieldReturnDropoff,
	"r-date":       form.FieldReturnDate,
	"r-time":       form.FieldReturnTime,
	"r-flight":     form.FieldReturnFlight,
	"gdpr":         form.FieldGDPR,
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("reserve", pflag.ContinueOnError)
	flags.String(flagAPIURL, "http://localhost:8080", "base URL of the transfer API")
	flags.String(flagLocale, string(locale.Default), "form language (sk, en, de)")
	flags.Duration(flagTimeout, httpclient.DefaultTimeout, "request timeout")
	flags.Bool(flagReturn, false, "request a return trip")
	flags.StringArray(flagPickupExtra, nil, "extra pickup stop (repeatable)")
	flags.StringArray(flagDropoffExtra, nil, "extra dropoff stop (repeatable)")
	flags.Bool(flagVerbose, false, "log request details")

	names := make([]string, 0, len(controlFlags))
	for name := range controlFlags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		flags.String(name, "", "form field "+controlFlags[name])
	}
	return flags
}

// loadSettings binds flags into viper so every flag can also come from a
// RESERVE_* environment variable
func loadSettings(args []string) (*viper.Viper, error) {
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("RESERVE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	return v, nil
}

// buildForm fills a form the way a visitor would
func buildForm(v *viper.Viper) *form.Form {
	f := form.New(locale.Resolve(v.GetString(flagLocale)))
	for flagName, control := range controlFlags {
		f.Set(control, v.GetString(flagName))
	}
	for _, value := range v.GetStringSlice(flagPickupExtra) {
		f.SetRowValue(f.AddPickup(), value)
	}
	for _, value := range v.GetStringSlice(flagDropoffExtra) {
		f.SetRowValue(f.AddDropoff(), value)
	}
	f.ToggleReturn(v.GetBool(flagReturn))
	return f
}

func run(args []string) int {
	v, err := loadSettings(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "reserve: %v\n", err)
		return 2
	}

	level := "error"
	if v.GetBool(flagVerbose) {
		level = "debug"
	}
	if err := logger.Initialize(logger.Config{Level: level, Environment: "development"}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	f := buildForm(v)
	client := reservationclient.New(v.GetString(flagAPIURL), httpclient.NewStandardClient(v.GetDuration(flagTimeout), "transfer-reserve/1.0"))
	logger.Debug("Submitting reservation", zap.Any("payload", f.BuildPayload()))

	ctx, cancel := context.WithTimeout(context.Background(), v.GetDuration(flagTimeout))
	defer cancel()

	err = f.Submit(ctx, client)
	status := f.Status()
	if err == nil {
		fmt.Println(status.Message)
		return 0
	}

	fmt.Fprintln(os.Stderr, status.Message)
	fields := make([]string, 0, len(status.Fields))
	for name := range status.Fields {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	for _, name := range fields {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", name, status.Fields[name])
	}
	return 1
}

func main() {
	start := time.Now()
	code := run(os.Args[1:])
	logger.Debug("Done", zap.Duration("elapsed", time.Since(start)))
	os.Exit(code)
}
