package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:"127.0.0.1:12345"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`

	DBType     string `env:"DBType" envDefault:"sqlite"`
	DSNURL     string `env:"DSN_URL" envDefault:""`
	DBUser     string `env:"DBUser" envDefault:""`
	DBPassword string `env:"DBPassword" envDefault:""`
	DBAddr     string `env:"DBAddr" envDefault:""`
	DBName     string `env:"DBName" envDefault:"tagz"`
	DBPath     string `env:"DBPath" envDefault:"datas/tagz.db"`
	DBPort     string `env:"DBPort" envDefault:"3306"`

	// 分页默认值
	ListTagsPerPage       uint `env:"LIST_TAGS_PER_PAGE" envDefault:"50"`
	ListFilesPerPage      uint `env:"LIST_FILES_PER_PAGE" envDefault:"50"`
	ListFilesByTagPerPage uint `env:"LIST_FILES_BY_TAG_PER_PAGE" envDefault:"2"`

	// 启动时确保存在的标签，逗号分隔
	SeedTags []string `env:"SEED_TAGS" envSeparator:","`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile       string `env:"LOG_FILE" envDefault:""`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
	LogCompress   bool   `env:"LOG_COMPRESS" envDefault:"false"`
}

// ParseConfig loads the optional env files and then parses the environment.
// A missing env file is not an error.
func ParseConfig(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logrus.WithField("file", file).Debug("env file not found, skipping")
				continue
			}
			logrus.WithError(err).WithField("file", file).Error("godotenv.Load error")
			return Config{}, err
		}
	}

	var Conf Config
	err := env.Parse(&Conf)
	if err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	logrus.WithFields(Conf.LogFields()).Debug("config loaded")
	return Conf, nil
}

// LogFields returns the configuration as log fields with credentials masked.
func (c Config) LogFields() logrus.Fields {
	return logrus.Fields{
		"http_addr":       c.HTTPAddr,
		"request_timeout": c.RequestTimeout.String(),
		"db_type":         c.DBType,
		"dsn_url":         redact(c.DSNURL),
		"db_user":         c.DBUser,
		"db_password":     redact(c.DBPassword),
		"db_addr":         c.DBAddr,
		"db_name":         c.DBName,
		"db_path":         c.DBPath,
		"db_port":         c.DBPort,
		"seed_tags":       c.SeedTags,
		"log_level":       c.LogLevel,
		"log_format":      c.LogFormat,
		"log_file":        c.LogFile,
	}
}

func redact(value string) string {
	if value == "" {
		return ""
	}
	return "******"
}
