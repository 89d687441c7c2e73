package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyUruoiDBType string = "URUOI_DB_TYPE"
	EnvKeyUruoiDbPath string = "URUOI_DB_PATH"

	EnvKeyUruoiHttpHostPort string = "URUOI_HTTP_HOST_PORT"

	EnvKeyUruoiDefaultRate  string = "URUOI_DEFAULT_RATE"
	EnvKeyUruoiDefaultBurst string = "URUOI_DEFAULT_BURST"

	EnvKeyUruoiDeviceID     string = "URUOI_DEVICE_ID"
	EnvKeyUruoiDeviceIDPath string = "URUOI_DEVICE_ID_PATH"

	EnvKeyUruoiLogsDir string = "URUOI_LOGS_DIR"

	LoggerNameHouseholdCore string = "household_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerFieldCategory     string = "category"
	LoggerCategoryContainer string = "container"
	LoggerCategoryRecord    string = "record"
	LoggerCategorySync      string = "sync"
	LoggerCategoryMigration string = "migration"
	LoggerCategorySettings  string = "settings"
)
