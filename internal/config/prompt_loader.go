package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LoadedPrompts holds file-sourced prompt content for one operation.
// File-based prompts override inline config prompts which override the
// built-in defaults.
type LoadedPrompts struct {
	System string
	User   string
}

var (
	loadedPromptsMu sync.RWMutex
	loadedPrompts   = map[string]LoadedPrompts{}
)

// LoadedPromptsFor returns the file-loaded prompts for an operation, if any
func LoadedPromptsFor(operation string) LoadedPrompts {
	loadedPromptsMu.RLock()
	defer loadedPromptsMu.RUnlock()
	return loadedPrompts[operation]
}

// loadPromptsFromFiles loads custom prompts from external files for every
// operation that specifies a systemFile or userFile path.
func (c *Config) loadPromptsFromFiles() error {
	count := 0

	for _, op := range Operations {
		opCfg, ok := c.AI.Operations[op]
		if !ok {
			continue
		}

		var loaded LoadedPrompts

		if opCfg.Prompts.SystemFile != "" {
			content, err := loadPromptFromFile(opCfg.Prompts.SystemFile, "system", op)
			if err != nil {
				return err
			}
			loaded.System = content
			count++
		}

		if opCfg.Prompts.UserFile != "" {
			content, err := loadPromptFromFile(opCfg.Prompts.UserFile, "user", op)
			if err != nil {
				return err
			}
			loaded.User = content
			count++
		}

		if loaded.System != "" || loaded.User != "" {
			loadedPromptsMu.Lock()
			loadedPrompts[op] = loaded
			loadedPromptsMu.Unlock()
		}
	}

	if count == 0 {
		log.Println("[CONFIG] No custom prompt files configured - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Loaded %d custom prompts from files", count)
	}

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling
func loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmed))

	return trimmed, nil
}
