package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tagz/internal/config"
	"tagz/internal/entity/db"
	"tagz/internal/model/sql"

	puresqlite "github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DBTypeMySQL      = "mysql"
	DBTypeSQLite     = "sqlite"
	DBTypeSQLitePure = "sqlite-pure"
	DBTypePostgres   = "postgres"
)

// RepositoryFactory 根据数据库类型创建对应的仓库实现
type RepositoryFactory struct {
	log *logrus.Logger
}

// NewRepositoryFactory 创建新的仓库工厂
func NewRepositoryFactory(log *logrus.Logger) *RepositoryFactory {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RepositoryFactory{log: log}
}

// InitRepository 初始化仓库的辅助函数
func InitRepository(cfg *config.Config, log *logrus.Logger) (Repository, error) {
	return NewRepositoryFactory(log).CreateRepository(cfg)
}

// CreateRepository 根据配置创建对应的仓库实现
func (f *RepositoryFactory) CreateRepository(cfg *config.Config) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DBType)) {
	case DBTypeMySQL:
		return f.createMySQLRepository(cfg)
	case "", DBTypeSQLite:
		return f.createSQLiteRepository(cfg, sqlite.Open)
	case DBTypeSQLitePure:
		return f.createSQLiteRepository(cfg, puresqlite.Open)
	case DBTypePostgres:
		return f.createPostgresRepository(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}
}

// createMySQLRepository 创建 MySQL 仓库
func (f *RepositoryFactory) createMySQLRepository(cfg *config.Config) (Repository, error) {
	dsn := cfg.DSNURL
	if dsn == "" {
		// 从各个配置项构建 DSN
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBAddr, cfg.DBPort, cfg.DBName)
	}

	gdb, err := f.openGormDB(mysql.Open(dsn), 100)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	return f.finish(gdb)
}

// createSQLiteRepository 创建 SQLite 仓库
func (f *RepositoryFactory) createSQLiteRepository(cfg *config.Config, open func(string) gorm.Dialector) (Repository, error) {
	filePath := cfg.DBPath
	if filePath == "" {
		filePath = "datas/tagz.db"
	}

	// SQLite 会在连接时自动创建 .db 文件，但前提是目录已存在
	if dir := filepath.Dir(filePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	// SQLite only supports one writer; a single connection also serialises
	// every statement issued against the file.
	gdb, err := f.openGormDB(open(filePath), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}
	return f.finish(gdb)
}

// createPostgresRepository 创建 PostgreSQL 仓库
func (f *RepositoryFactory) createPostgresRepository(cfg *config.Config) (Repository, error) {
	dsn := cfg.DSNURL
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBAddr, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
	}

	gdb, err := f.openGormDB(postgres.Open(dsn), 100)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	return f.finish(gdb)
}

func (f *RepositoryFactory) finish(gdb *gorm.DB) (Repository, error) {
	if err := MigrateSchema(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return NewGormRepository(gdb), nil
}

func (f *RepositoryFactory) openGormDB(dialector gorm.Dialector, maxOpen int) (*gorm.DB, error) {
	// GORM 日志写入 logrus
	gormLogger := logger.New(
		f.log,
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormLogger,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	// 配置连接池
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(min(10, maxOpen))
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gdb, nil
}

// MigrateSchema 迁移数据库表结构
func MigrateSchema(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&db.File{},
		&db.Tag{},
		&db.FileTag{},
	)
}

// gormRepository adapts sql.GormRepository to the Repository contract.
type gormRepository struct {
	*sql.GormRepository
}

// NewGormRepository wraps an opened gorm database as a Repository.
func NewGormRepository(gdb *gorm.DB) Repository {
	return gormRepository{GormRepository: sql.NewGormRepository(gdb)}
}

func (r gormRepository) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	return r.GormRepository.Transaction(ctx, func(tx *sql.GormRepository) error {
		return fn(gormRepository{GormRepository: tx})
	})
}
