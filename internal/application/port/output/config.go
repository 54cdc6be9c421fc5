package output

type ConfigPort interface {
	AppEnv() string
	Get(key string) string
	GetWithDefault(key string, defaultValue string) string
}
