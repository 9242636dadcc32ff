package postgres

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aidka-pyramidka/post-in-a-social-media/config"
	"github.com/aidka-pyramidka/post-in-a-social-media/internal/util"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var safeDBName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Bootstrap 在启动时准备数据库：目标库不存在时创建，
// 然后执行建表脚本，按需执行种子数据脚本。
func Bootstrap(ctx context.Context, schemaPath, seedPath string, runSeed bool) error {
	targetDB := config.AppConfig.DBName
	if !safeDBName.MatchString(targetDB) {
		return fmt.Errorf("unsafe database name: %q", targetDB)
	}

	if err := createDatabaseIfMissing(ctx, targetDB); err != nil {
		return fmt.Errorf("bootstrap database (create DB): %w", err)
	}

	conn, err := pgx.Connect(ctx, dsnFor(targetDB))
	if err != nil {
		return fmt.Errorf("bootstrap database (connect): %w", err)
	}
	defer conn.Close(ctx)

	if err := runScript(ctx, conn, schemaPath); err != nil {
		return fmt.Errorf("bootstrap database (run schema): %w", err)
	}
	if runSeed {
		if err := runScript(ctx, conn, seedPath); err != nil {
			return fmt.Errorf("bootstrap database (run seed): %w", err)
		}
	}

	util.Logger.Info("数据库初始化完成", zap.String("database", targetDB))
	return nil
}

func createDatabaseIfMissing(ctx context.Context, targetDB string) error {
	admin, err := pgx.Connect(ctx, dsnFor(config.AppConfig.DBAdminName))
	if err != nil {
		return err
	}
	defer admin.Close(ctx)

	var exists bool
	err = admin.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", targetDB).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// 库名已经过白名单校验，CREATE DATABASE 不支持参数绑定
	_, err = admin.Exec(ctx, "CREATE DATABASE "+targetDB)
	if err != nil {
		return err
	}

	util.Logger.Info("数据库已创建", zap.String("database", targetDB))
	return nil
}

func runScript(ctx context.Context, conn *pgx.Conn, path string) error {
	statements, err := util.LoadSQLStatements(path)
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("execute %q: %w", path, err)
		}
	}
	return nil
}
