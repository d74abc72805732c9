package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// KioskConfigKey returns the cache key for the kiosk configuration document.
func (r *CacheKeyStruct) KioskConfigKey() string {
	return "kiosk:config"
}

// CheckinChannel returns the Redis PubSub channel name for the live
// check-in feed consumed by the admin monitor.
func (r *CacheKeyStruct) CheckinChannel() string {
	return "kiosk:checkins"
}

var CacheKey = NewCacheKeyStruct()
