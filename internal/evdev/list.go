package evdev

import (
	"os"
	"path/filepath"
)

// InputPath pairs a device node with the name its driver reports.
type InputPath struct {
	Path string
	Name string
}

// ListDevicePaths reports every event node under /dev/input along with its
// device name. Nodes that cannot be opened or identified are skipped.
func ListDevicePaths() ([]InputPath, error) {
	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, err
	}

	var list []InputPath
	for _, path := range matches {
		file, err := os.Open(path)
		if err != nil {
			continue
		}
		id, err := NewDevice(file).Identity()
		file.Close()
		if err != nil {
			continue
		}
		list = append(list, InputPath{Path: path, Name: id.Name})
	}
	return list, nil
}
