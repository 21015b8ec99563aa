package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds application configuration loaded from environment variables and .env file.
type AppConfig struct {
	// Database config
	DBHost string
	DBPort int
	DBUser string
	DBPass string
	DBName string

	// Logging config
	LogLevel      string
	LogFile       string
	LogMaxSize    int // MB
	LogMaxBackups int
	LogMaxAge     int // days
	LogCompress   bool

	// Extract upload config
	ExtractDir string // Directory where uploaded extract files are stored

	// Import config
	ImportDelimiter  string // Field separator used by the current extract format
	ImportBatchSize  int    // Number of Column rows accumulated per bulk insert
	ImportQueueSize  int    // Capacity of the background import queue
	LegacyDelimiters map[string]string

	// Source warehouse config (optional; enables direct warehouse import)
	WarehouseDSN string
}

// Cfg is the global application configuration instance.
var Cfg AppConfig

// LoadConfig loads and validates application configuration from .env file and environment variables.
func LoadConfig() error {
	err := godotenv.Load()
	if err != nil {
		// Use standard log here since logger is not initialized yet
		log.Printf("[WARN] .env file not found or cannot be loaded: %v", err)
	} else {
		log.Printf("[INFO] .env file loaded successfully")
	}

	Cfg.DBHost = getEnv("DB_HOST", "127.0.0.1")
	Cfg.DBUser = getEnv("DB_USER", "root")
	Cfg.DBPass = getEnv("DB_PASS", "")
	Cfg.DBName = getEnv("DB_NAME", "datacatalog")

	portStr := getEnv("DB_PORT", "3306")
	portInt, _ := strconv.Atoi(portStr)
	Cfg.DBPort = portInt

	// Load logging config
	Cfg.LogLevel = getEnv("LOG_LEVEL", "INFO")
	Cfg.LogFile = getEnv("LOG_FILE", "/var/log/datacatalog/datacatalogapi.log")

	Cfg.LogMaxSize = getEnvInt("LOG_MAX_SIZE", 10)
	Cfg.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", 3)
	Cfg.LogMaxAge = getEnvInt("LOG_MAX_AGE", 28)
	Cfg.LogCompress = getEnvBool("LOG_COMPRESS", true)

	// Load extract upload config
	Cfg.ExtractDir = getEnv("EXTRACT_DIR", "/var/lib/datacatalog/extracts")

	// The current-format extracts separate fields with the not-sign. Legacy
	// files use comma or tab depending on the file extension.
	Cfg.ImportDelimiter = getEnv("IMPORT_DELIMITER", "¬")
	Cfg.ImportBatchSize = getEnvInt("IMPORT_BATCH_SIZE", 100)
	Cfg.ImportQueueSize = getEnvInt("IMPORT_QUEUE_SIZE", 16)
	Cfg.LegacyDelimiters = map[string]string{
		".csv": ",",
		".tsv": "\t",
		".txt": "\t",
	}

	// Load source warehouse config. Empty DSN disables the warehouse sync endpoint.
	Cfg.WarehouseDSN = getEnv("WAREHOUSE_DSN", "")

	log.Printf("[INFO] Config loaded - DB: %s@%s:%d/%s, LogLevel: %s",
		Cfg.DBUser, Cfg.DBHost, Cfg.DBPort, Cfg.DBName, Cfg.LogLevel)
	log.Printf("[INFO] Import config - ExtractDir: %s, Delimiter: %q, BatchSize: %d, QueueSize: %d",
		Cfg.ExtractDir, Cfg.ImportDelimiter, Cfg.ImportBatchSize, Cfg.ImportQueueSize)

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

// DelimiterForFile returns the field separator to use for an uploaded extract.
// Current-format files always use the configured delimiter; legacy files are
// matched on extension and fall back to comma.
func DelimiterForFile(fileName string, legacy bool) string {
	if !legacy {
		return Cfg.ImportDelimiter
	}
	lower := strings.ToLower(fileName)
	for ext, delim := range Cfg.LegacyDelimiters {
		if strings.HasSuffix(lower, ext) {
			return delim
		}
	}
	return ","
}
