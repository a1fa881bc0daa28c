package utils

import (
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var once sync.Once
var router *chi.Mux

func GetNewUUID() string {
	return uuid.New().String()
}

type RouterClient struct {
	Router *chi.Mux
}

func GetRouter() RouterClient {
	once.Do(func() {
		router = chi.NewRouter()
		//register prometheus
		router.Handle("/metrics", promhttp.Handler())
	})

	return RouterClient{Router: router}
}

// StoredName returns the on-disk name for an uploaded file: a uuid hex
// stem so user-supplied names never touch the filesystem.
func StoredName(ext string) string {
	h := strings.ReplaceAll(uuid.New().String(), "-", "")
	if ext == "" {
		return h
	}
	return h + "." + strings.TrimPrefix(ext, ".")
}

// TruncateRunes bounds user-visible strings (status messages, derived
// names) without splitting multi-byte runes.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// FileStem strips the directory and the last extension from a path.
func FileStem(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
