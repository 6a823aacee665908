// 包 utils：环境变量读取与外部连接（Postgres / Redis）
package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Getenv：读取环境变量，空值回退默认
func Getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetenvInt：解析失败或非正数时回退默认
func GetenvInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, e := strconv.Atoi(strings.TrimSpace(s)); e == nil && n > 0 {
			return n
		}
	}
	return def
}

// GetenvBool：仅 "true"/"1" 视为开启
func GetenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return def
}

// GetenvDuration：以 unit 为单位的整数
func GetenvDuration(key string, def time.Duration, unit time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if n, e := strconv.Atoi(strings.TrimSpace(s)); e == nil && n > 0 {
			return time.Duration(n) * unit
		}
	}
	return def
}

// GetenvList：逗号分隔，去除空项
func GetenvList(key string, def []string) []string {
	s := os.Getenv(key)
	if strings.TrimSpace(s) == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
