package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/imamik/chzner/internal/config"
	"github.com/imamik/chzner/internal/util/sshkey"
)

// keyBits is the RSA size for generated key pairs.
const keyBits = 4096

// WriteConfig writes cfg as YAML with a descriptive header. The password is
// never written.
func WriteConfig(cfg *config.Config, outputPath string) error {
	out := *cfg
	out.Password = ""

	yamlBytes, err := config.Encode(&out)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// GenerateKey creates a key pair whose public half lands at publicPath.
func GenerateKey(publicPath string) error {
	privatePath := strings.TrimSuffix(publicPath, ".pub")
	if privatePath == publicPath {
		return fmt.Errorf("public key path %q must end in .pub", publicPath)
	}

	kp, err := sshkey.GenerateRSAKeyPair(keyBits)
	if err != nil {
		return err
	}
	if _, err := sshkey.WriteKeyPair(kp, privatePath); err != nil {
		return err
	}
	return nil
}

func generateHeader(outputPath string) string {
	var sb strings.Builder
	sb.WriteString("# chzner cluster configuration\n")
	sb.WriteString(fmt.Sprintf("# Generated: %s\n", time.Now().Format(time.RFC3339)))
	sb.WriteString("#\n")
	sb.WriteString("# Provide the cluster password via the environment before applying:\n")
	sb.WriteString(fmt.Sprintf("#   export %s=<password>\n", config.EnvPassword))
	sb.WriteString(fmt.Sprintf("#   export %s=<token>\n", config.EnvHCloudToken))
	sb.WriteString("#\n")
	sb.WriteString(fmt.Sprintf("#   chzner plan -c %s\n", outputPath))
	sb.WriteString(fmt.Sprintf("#   chzner apply -c %s\n", outputPath))
	return sb.String()
}
