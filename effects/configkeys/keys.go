package configkeys

const (
	delimiter = "."

	ConfigPrefix = "config"

	ConfigEffectPrefix = ConfigPrefix + delimiter + "effect"

	ConfigEffectLogPrefix            = ConfigEffectPrefix + delimiter + "log"
	ConfigEffectLogHandlerPrefix     = ConfigEffectLogPrefix + delimiter + "handler"
	ConfigEffectLogHandlerBufferSize = ConfigEffectLogHandlerPrefix + delimiter + "buffer_size"

	ConfigEffectTaskPrefix            = ConfigEffectPrefix + delimiter + "task"
	ConfigEffectTaskHandlerPrefix     = ConfigEffectTaskPrefix + delimiter + "handler"
	ConfigEffectTaskHandlerBufferSize = ConfigEffectTaskHandlerPrefix + delimiter + "buffer_size"
	ConfigEffectTaskHandlerNumWorkers = ConfigEffectTaskHandlerPrefix + delimiter + "num_workers"
	ConfigEffectTaskLimit             = ConfigEffectTaskPrefix + delimiter + "limit"

	ConfigEffectCachePrefix            = ConfigEffectPrefix + delimiter + "cache"
	ConfigEffectCacheHandlerPrefix     = ConfigEffectCachePrefix + delimiter + "handler"
	ConfigEffectCacheHandlerBufferSize = ConfigEffectCacheHandlerPrefix + delimiter + "buffer_size"
	ConfigEffectCacheHandlerNumWorkers = ConfigEffectCacheHandlerPrefix + delimiter + "num_workers"
	ConfigEffectCacheCapacity          = ConfigEffectCachePrefix + delimiter + "capacity"

	ConfigEffectConcurrencyPrefix            = ConfigEffectPrefix + delimiter + "concurrency"
	ConfigEffectConcurrencyHandlerPrefix     = ConfigEffectConcurrencyPrefix + delimiter + "handler"
	ConfigEffectConcurrencyHandlerBufferSize = ConfigEffectConcurrencyHandlerPrefix + delimiter + "buffer_size"
)
