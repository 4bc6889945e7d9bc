package config

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetDataFile() string {
	return GetEnv("DATA_FILE", "./data/tenants.db")
}

func (Storage) GetSessionBackend() string {
	return GetEnv("SESSION_BACKEND", SessionBackendMemory)
}

func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}
