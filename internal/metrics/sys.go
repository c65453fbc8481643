package metrics

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
)

// SysHealth represents real-time process and storage metrics.
type SysHealth struct {
	AllocMB      uint64
	SysMB        uint64
	NumGC        uint32
	Goroutines   int
	DataDiskSize string
}

// GetSysHealth collects real-time health data. dataPaths may name files or
// directories; missing ones count as empty.
func GetSysHealth(dataPaths ...string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var size int64
	for _, p := range dataPaths {
		size += diskUsage(p)
	}

	return SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		DataDiskSize: FormatBytes(size),
	}
}

func diskUsage(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}

// FormatBytes renders a size with a binary unit suffix.
func FormatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
