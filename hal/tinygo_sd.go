//go:build tinygo && baremetal

package hal

import (
	"errors"
	"io"
	"os"

	"machine"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs/fatfs"
)

// sdStorage reads media files from a FAT-formatted SD card on SPI0.
type sdStorage struct {
	fat *fatfs.FATFS
}

func newSDStorage(logger Logger) Storage {
	sd := sdcard.New(machine.SPI0, machine.GP18, machine.GP19, machine.GP16, machine.GP17)
	if err := sd.Configure(); err != nil {
		logger.WriteLineString("hal: sd configure failed")
		return &sdStorage{}
	}

	fat := fatfs.New(&sd).Configure(&fatfs.Config{SectorSize: fatfs.SectorSize})
	if err := fat.Mount(); err != nil {
		// Do not auto-format removable media.
		logger.WriteLineString("hal: sd mount failed")
		return &sdStorage{}
	}

	return &sdStorage{fat: fat}
}

func (s *sdStorage) ReadFile(name string) ([]byte, error) {
	if s == nil || s.fat == nil {
		return nil, errors.New("sd: not ready")
	}

	f, err := s.fat.OpenFile(name, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var data []byte
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return data, nil
}
