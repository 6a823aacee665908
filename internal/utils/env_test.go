package utils

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestGetenvDefaults(t *testing.T) {
	t.Setenv("RM_STR", "  ")
	t.Setenv("RM_INT", "abc")
	t.Setenv("RM_NEG", "-3")
	t.Setenv("RM_BOOL", "yes")
	if got := Getenv("RM_STR", "d"); got != "d" {
		t.Errorf("Getenv = %q", got)
	}
	if got := GetenvInt("RM_INT", 7); got != 7 {
		t.Errorf("GetenvInt(bad) = %d", got)
	}
	if got := GetenvInt("RM_NEG", 7); got != 7 {
		t.Errorf("GetenvInt(neg) = %d", got)
	}
	if got := GetenvBool("RM_BOOL", true); !got {
		t.Errorf("GetenvBool(unknown) should keep default")
	}
}

func TestGetenvValues(t *testing.T) {
	t.Setenv("RM_INT", "42")
	t.Setenv("RM_DUR", "8000")
	t.Setenv("RM_LIST", "บ้านดง, ,บ้านป่าแดง,")
	if got := GetenvInt("RM_INT", 1); got != 42 {
		t.Errorf("GetenvInt = %d", got)
	}
	if got := GetenvDuration("RM_DUR", time.Second, time.Millisecond); got != 8*time.Second {
		t.Errorf("GetenvDuration = %v", got)
	}
	want := []string{"บ้านดง", "บ้านป่าแดง"}
	if got := GetenvList("RM_LIST", nil); !reflect.DeepEqual(got, want) {
		t.Errorf("GetenvList = %v, want %v", got, want)
	}
}

func TestBuildPostgresDSN(t *testing.T) {
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_USER", "map")
	t.Setenv("PG_PASSWORD", "p@ss")
	t.Setenv("PG_DB", "parcels")
	dsn := BuildPostgresDSNFromEnv()
	if !strings.HasPrefix(dsn, "postgres://map:p%40ss@db:5432/parcels") || !strings.HasSuffix(dsn, "sslmode=disable") {
		t.Fatalf("dsn = %s", dsn)
	}
}

func TestRedisDisabledByDefault(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "")
	if c := OpenRedisFromEnv(); c != nil {
		t.Fatal("redis client opened without REDIS_ENABLED")
	}
}
