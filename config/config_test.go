package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 5000},
		Database: DatabaseConfig{Driver: "sqlite"},
		Auth:     AuthConfig{JWTSecret: "0123456789abcdef-secret"},
		Booking:  BookingConfig{Timezone: "UTC", DiningDuration: 90 * time.Minute},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("期望配置有效，实际: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"短密钥":     func(c *Config) { c.Auth.JWTSecret = "short" },
		"端口越界":    func(c *Config) { c.Server.Port = 70000 },
		"未知驱动":    func(c *Config) { c.Database.Driver = "mongo" },
		"无效时区":    func(c *Config) { c.Booking.Timezone = "Mars/Olympus" },
		"用餐时长为0":  func(c *Config) { c.Booking.DiningDuration = 0 },
		"管理员密码过短": func(c *Config) { c.Auth.BootstrapAdmin = BootstrapAdminConfig{Email: "a@b.c", Password: "123"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("期望校验失败")
			}
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 8081
db:
  driver: sqlite
auth:
  jwt_secret: file-secret-0123456789
booking:
  timezone: Asia/Shanghai
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	t.Setenv("RESV_SERVER_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("环境变量应覆盖文件，期望 9090，实际 %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("期望 driver=sqlite，实际 %s", cfg.Database.Driver)
	}
	if cfg.Booking.DiningDuration != 90*time.Minute {
		t.Errorf("期望默认用餐时长 90m，实际 %v", cfg.Booking.DiningDuration)
	}
	if cfg.Booking.Location().String() != "Asia/Shanghai" {
		t.Errorf("期望时区 Asia/Shanghai，实际 %s", cfg.Booking.Location())
	}
}
