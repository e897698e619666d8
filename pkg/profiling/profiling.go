package profiling

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"

	"github.com/letiskotransfer/transfer-api/config"
	"github.com/letiskotransfer/transfer-api/pkg/logger"
)

const (
	defaultAppName        = "transfer-api"
	defaultUploadInterval = 15 * time.Second

	// Nanoseconds blocked per sampled event
	blockProfileRate = int(time.Microsecond)
)

// profileSets maps O11Y_PROFILING_SAMPLE_TYPES entries to pyroscope profiles
var profileSets = map[string][]pyroscope.ProfileType{
	"cpu":         {pyroscope.ProfileCPU},
	"alloc_space": {pyroscope.ProfileAllocSpace},
	"goroutines":  {pyroscope.ProfileGoroutines},
	"block":       {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

var defaultSampleTypes = []string{"cpu", "alloc_space", "goroutines", "block"}

// InitProfiler starts continuous profiling when O11Y_PROFILING_ENABLED is set.
// The returned stop function is always safe to call.
func InitProfiler(appCfg *config.Config) (func(), error) {
	cfg := appCfg.Profiling
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}

	sampleTypes, profileTypes, err := selectProfiles(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}

	uploadInterval := defaultUploadInterval
	if cfg.UploadIntervalSeconds > 0 {
		uploadInterval = time.Duration(cfg.UploadIntervalSeconds) * time.Second
	}

	appName := strings.TrimSpace(cfg.AppName)
	if appName == "" {
		appName = defaultAppName
	}

	blocking := containsString(sampleTypes, "block")
	if blocking {
		runtime.SetBlockProfileRate(blockProfileRate)
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		Tags:            profileTags(appCfg),
		ServerAddress:   endpoint,
		UploadRate:      uploadInterval,
		ProfileTypes:    profileTypes,
	})
	if err != nil {
		if blocking {
			runtime.SetBlockProfileRate(0)
		}
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling initialized",
		zap.String("application_name", appName),
		zap.String("endpoint", endpoint),
		zap.Strings("sample_types", sampleTypes),
		zap.Duration("upload_interval", uploadInterval),
	)

	return func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			logger.Error("Failed to stop profiler", zap.Error(stopErr))
		}
		if blocking {
			runtime.SetBlockProfileRate(0)
		}
	}, nil
}

// selectProfiles parses a comma-separated sample type list. Duplicates are
// dropped and an empty list selects every supported type.
func selectProfiles(value string) ([]string, []pyroscope.ProfileType, error) {
	var names []string
	for _, raw := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || containsString(names, name) {
			continue
		}
		if _, ok := profileSets[name]; !ok {
			return nil, nil, fmt.Errorf("unsupported O11Y_PROFILING_SAMPLE_TYPES value: %q", name)
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		names = defaultSampleTypes
	}

	var types []pyroscope.ProfileType
	for _, name := range names {
		types = append(types, profileSets[name]...)
	}
	return names, types, nil
}

// profileTags labels every uploaded profile with the service identity
func profileTags(appCfg *config.Config) map[string]string {
	tags := map[string]string{
		"service_name":    appCfg.Observability.ServiceName,
		"namespace":       appCfg.Observability.ServiceNamespace,
		"environment":     appCfg.Server.AppEnv,
		"service_version": appCfg.Observability.ServiceVersion,
		"instance":        appCfg.Observability.ServiceInstanceID,
	}
	for key, value := range tags {
		if value == "" {
			delete(tags, key)
		}
	}
	return tags
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
