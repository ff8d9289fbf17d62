package deployment

import (
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"

	"clan_war_stats/internal/config"
	"clan_war_stats/internal/processing"
)

// ArchiveUploader ships closed-section archive files to a remote host via
// SCP. It connects lazily on the first upload and reconnects after a
// failed session.
type ArchiveUploader struct {
	keyPath   string
	deployURL string
	retry     config.RetryConfig
	client    *ssh.Client
	connected bool
}

// Interface compliance check
var _ processing.ArchiveUploaderInterface = (*ArchiveUploader)(nil)

// NewArchiveUploader creates an uploader for a target in user@host:path form
func NewArchiveUploader(deployURL string) *ArchiveUploader {
	return &ArchiveUploader{
		keyPath:   "deploy.pem",
		deployURL: deployURL,
		retry:     config.DefaultResilienceConfig.ArchiveUpload,
	}
}

// parseDeployURL parses a target in format: user@host:path
func (u *ArchiveUploader) parseDeployURL() (user, host, remotePath string, err error) {
	if u.deployURL == "" {
		return "", "", "", fmt.Errorf("deploy URL is empty")
	}

	parts := strings.SplitN(u.deployURL, "@", 2)
	if len(parts) != 2 {
		return "", "", "", fmt.Errorf("invalid deploy URL format: expected user@host:path")
	}
	user = parts[0]

	hostParts := strings.SplitN(parts[1], ":", 2)
	if len(hostParts) != 2 {
		return "", "", "", fmt.Errorf("invalid deploy URL format: expected user@host:path")
	}

	return user, hostParts[0], hostParts[1], nil
}

func (u *ArchiveUploader) connect() error {
	if u.connected {
		return nil
	}

	user, host, _, err := u.parseDeployURL()
	if err != nil {
		return fmt.Errorf("failed to parse deploy URL: %w", err)
	}

	keyData, err := os.ReadFile(u.keyPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH key file %s: %w", u.keyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return fmt.Errorf("failed to parse SSH private key: %w", err)
	}

	sshConfig := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // In production, use proper host key verification
		Timeout:         30 * time.Second,
	}

	u.client, err = ssh.Dial("tcp", net.JoinHostPort(host, "22"), sshConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SSH server %s: %w", host, err)
	}

	u.connected = true
	log.Info().
		Str("host", host).
		Str("user", user).
		Msg("Connected to archive host")

	return nil
}

// Disconnect closes the SSH connection
func (u *ArchiveUploader) Disconnect() error {
	if u.client != nil {
		err := u.client.Close()
		u.connected = false
		u.client = nil
		return err
	}
	return nil
}

// UploadArchive copies the archive at localPath to the remote archive
// directory, retrying transient failures.
func (u *ArchiveUploader) UploadArchive(localPath string) error {
	var lastErr error
	for attempt := 1; attempt <= u.retry.MaxAttempts; attempt++ {
		err := u.uploadOnce(localPath)
		if err == nil {
			return nil
		}
		lastErr = err

		// A dead connection poisons every later session; force a redial
		u.Disconnect()

		if attempt < u.retry.MaxAttempts {
			wait := u.retry.NextWait(attempt)
			log.Warn().
				Err(err).
				Str("local_path", localPath).
				Int("attempt", attempt).
				Dur("wait", wait).
				Msg("Archive upload failed, retrying")
			time.Sleep(wait)
		}
	}
	return fmt.Errorf("archive upload failed after %d attempts: %w", u.retry.MaxAttempts, lastErr)
}

func (u *ArchiveUploader) uploadOnce(localPath string) error {
	if err := u.connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	_, _, remotePath, err := u.parseDeployURL()
	if err != nil {
		return fmt.Errorf("failed to parse deploy URL: %w", err)
	}

	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", localPath, err)
	}
	defer localFile.Close()

	fileInfo, err := localFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	}

	session, err := u.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer session.Close()

	filename := filepath.Base(localPath)
	remoteFilePath := filepath.Join(remotePath, filename)

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	if err := session.Start(fmt.Sprintf("scp -t %s", remoteFilePath)); err != nil {
		return fmt.Errorf("failed to start SCP session: %w", err)
	}

	header := fmt.Sprintf("C0644 %d %s\n", fileInfo.Size(), filename)
	if _, err := stdin.Write([]byte(header)); err != nil {
		return fmt.Errorf("failed to write SCP header: %w", err)
	}

	if _, err := io.Copy(stdin, localFile); err != nil {
		return fmt.Errorf("failed to copy archive content: %w", err)
	}

	if _, err := stdin.Write([]byte{0}); err != nil {
		return fmt.Errorf("failed to write SCP end marker: %w", err)
	}

	stdin.Close()
	if err := session.Wait(); err != nil {
		return fmt.Errorf("SCP session failed: %w", err)
	}

	log.Info().
		Str("local_path", localPath).
		Str("remote_path", remoteFilePath).
		Int64("size", fileInfo.Size()).
		Msg("Uploaded section archive")

	return nil
}
