package main

import (
	"strings"

	"github.com/joho/godotenv"

	"councild/internal/app"
	"councild/pkg/banner"
	"councild/pkg/config"
	"councild/pkg/logger"
)

// build metadata - set via ldflags during build/release
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	_ = godotenv.Load(".env")
	addrVal, dbVal, cfgVal, setFlags := config.ParseCommandFlags()

	// config path: flag wins over env
	cfgPath := config.ResolveConfigPath(cfgVal, setFlags["config"])
	cfg, envUsed, err := config.LoadEffective(cfgPath)
	if err != nil {
		logger.InitWithLevel("")
		logger.Error("config_load_failed", "path", cfgPath, "error", err)
		return
	}
	logger.InitWithLevel(cfg.Logging.Level)

	// flags win over env/config for addr and db path
	addr := cfg.Addr()
	if setFlags["addr"] {
		addr = addrVal
	}
	dbPath := cfg.Server.DBPath
	if dbPath == "" || setFlags["db"] {
		dbPath = dbVal
	}

	srcs := []string{}
	if len(setFlags) > 0 {
		srcs = append(srcs, "flags")
	}
	if envUsed {
		srcs = append(srcs, "env")
	}
	if _, err := config.Load(cfgPath); err == nil {
		srcs = append(srcs, "config")
	}
	verStr := version
	if commit != "none" {
		verStr = verStr + " (" + commit + ")"
	}
	if buildDate != "unknown" {
		verStr = verStr + " @ " + buildDate
	}
	banner.Print(addr, dbPath, strings.Join(srcs, ", "), verStr)

	a, err := app.New(cfg, addr, dbPath, version)
	if err != nil {
		logger.Error("startup_failed", "error", err)
		return
	}
	if err := a.Run(); err != nil {
		logger.Error("server_exit", "error", err)
	}
}
