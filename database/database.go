package database

import (
	"fmt"
	"log"

	"expensetracker/config"
	"expensetracker/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 建立数据库连接并迁移表结构，返回连接句柄由调用方注入到存储层
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := buildDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// 自动迁移数据库表
	if err := db.AutoMigrate(&models.Expense{}); err != nil {
		return nil, fmt.Errorf("迁移数据库表失败: %w", err)
	}

	log.Println("数据库初始化成功")
	return db, nil
}

// buildDialector 根据配置选择数据库驱动，默认使用 MySQL
func buildDialector(cfg *config.Config) (gorm.Dialector, error) {
	dbc := cfg.Database
	switch dbc.Driver {
	case "", "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			dbc.Username,
			dbc.Password,
			dbc.Host,
			dbc.Port,
			dbc.DBName,
			dbc.Charset,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			dbc.Host,
			dbc.Port,
			dbc.Username,
			dbc.Password,
			dbc.DBName,
			dbc.SSLMode,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", dbc.Driver)
	}
}
