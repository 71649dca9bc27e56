package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

const APP_NAME = "ember"

// Values read from $XDG_CONFIG_HOME/ember/env, overridden by the process
// environment
type Envs struct {
	// Empty means the host's default target triple
	TARGET string `env:"E_TARGET"`
	CPU    string `env:"E_CPU"`
}

func (e *Envs) Each(fn func(key, value string)) {
	v := reflect.ValueOf(e).Elem()
	for i := 0; i < v.NumField(); i++ {
		field := v.Type().Field(i)
		envTag := field.Tag.Get("env")
		if envTag != "" {
			fn(envTag, v.Field(i).String())
		}
	}
}

func LoadEnvs() (*Envs, error) {
	values := map[string]string{}

	configDir, err := getConfigDir(APP_NAME)
	if err == nil {
		fileValues, err := loadEnvFile(filepath.Join(configDir, "env"))
		if err != nil {
			return nil, err
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}

	envs := &Envs{}
	envs.Each(func(key, _ string) {
		if value, ok := os.LookupEnv(key); ok {
			values[key] = value
		}
	})

	err = MapEnvToStruct(values, envs)
	if err != nil {
		return nil, err
	}
	return envs, nil
}

func getConfigDir(appName string) (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory")
	}
	if os.Getenv("OS") == "Windows_NT" {
		return filepath.Join(os.Getenv("APPDATA"), appName), nil
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// A missing file is not an error
func loadEnvFile(path string) (map[string]string, error) {
	env := make(map[string]string)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return env, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), "'\"")
		env[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return env, nil
}

func MapEnvToStruct(data map[string]string, result any) error {
	v := reflect.ValueOf(result)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("MapEnvToStruct expects a pointer to struct, got %s", v.Type())
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		envTag := field.Tag.Get("env")
		if envTag != "" {
			if value, ok := data[envTag]; ok {
				if fieldValue.CanSet() && fieldValue.Kind() == reflect.String {
					fieldValue.SetString(value)
				}
			}
		}
	}

	return nil
}
