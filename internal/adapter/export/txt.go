package export

import "os"

// TXTRenderer пишет текст как есть, байт в байт
type TXTRenderer struct{}

func (TXTRenderer) Render(text, path string) error {
	return os.WriteFile(path, []byte(text), 0o600)
}
