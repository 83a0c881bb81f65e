package ssh

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog/log"
)

// WriteFile writes data to a file on the remote host via SFTP, creating
// parent directories as needed. Used to place the release record on the
// target after a deploy.
func (c *Client) WriteFile(ctx context.Context, remotePath string, data []byte, perm os.FileMode) error {
	sshClient, err := c.getClient()
	if err != nil {
		return err
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		return &TransportError{
			Op:          "write-file",
			Err:         fmt.Errorf("failed to create sftp client: %w", err),
			IsTemporary: true,
		}
	}
	defer sftpClient.Close()

	if dir := path.Dir(remotePath); dir != "." && dir != "/" {
		if err := sftpClient.MkdirAll(dir); err != nil {
			return &TransportError{
				Op:  "write-file",
				Err: fmt.Errorf("failed to create directory %s: %w", dir, err),
			}
		}
	}

	f, err := sftpClient.Create(remotePath)
	if err != nil {
		return &TransportError{
			Op:  "write-file",
			Err: fmt.Errorf("failed to create %s: %w", remotePath, err),
		}
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return &TransportError{
			Op:          "write-file",
			Err:         fmt.Errorf("failed to write %s: %w", remotePath, err),
			IsTemporary: true,
		}
	}

	if err := f.Close(); err != nil {
		return &TransportError{
			Op:  "write-file",
			Err: fmt.Errorf("failed to close %s: %w", remotePath, err),
		}
	}

	if err := sftpClient.Chmod(remotePath, perm); err != nil {
		log.Warn().Err(err).Str("path", remotePath).Msg("failed to set file mode")
	}

	log.Debug().Str("path", remotePath).Int("bytes", len(data)).Msg("remote file written")
	return nil
}
