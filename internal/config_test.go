package internal_test

import (
	"strings"
	"time"

	"github.com/frahmantamala/hr-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			Port:              8000,
			AllowedOrigins:    "*",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Security: internal.SecurityConfig{
			AccessTokenSecret:    strings.Repeat("a", 32),
			RefreshTokenSecret:   strings.Repeat("r", 32),
			PasswordResetSecret:  strings.Repeat("p", 32),
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 24 * time.Hour,
			BCryptCost:           10,
			Blacklist:            "database",
		},
	}
}

var _ = Describe("Config", func() {
	var cfg *internal.Config

	BeforeEach(func() {
		cfg = validConfig()
	})

	It("should accept a complete configuration", func() {
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should reject short secrets", func() {
		cfg.Security.AccessTokenSecret = "short"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("access_token_secret")))
	})

	It("should reject identical access and refresh secrets", func() {
		cfg.Security.RefreshTokenSecret = cfg.Security.AccessTokenSecret
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("must differ")))
	})

	It("should reject a refresh lifetime shorter than the access lifetime", func() {
		cfg.Security.RefreshTokenDuration = time.Minute
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("refresh_token_duration")))
	})

	It("should require redis for the redis blacklist", func() {
		cfg.Security.Blacklist = "redis"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("requires redis.enabled")))

		cfg.Redis = internal.RedisConfig{Enabled: true, Addr: "localhost:6379"}
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should reject an unknown blacklist backend", func() {
		cfg.Security.Blacklist = "memcached"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("unknown blacklist backend")))
	})

	It("should only check optional backends when enabled", func() {
		cfg.Kafka = internal.KafkaConfig{Enabled: false}
		cfg.Storage = internal.StorageConfig{Enabled: false}
		Expect(cfg.Validate()).To(Succeed())

		cfg.Kafka.Enabled = true
		cfg.Storage.Enabled = true
		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("kafka config")))
		Expect(err).To(MatchError(ContainSubstring("storage config")))
	})

	It("should reject more idle than open connections", func() {
		cfg.Database.MaxIdleConns = 20
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	Describe("LoadConfigFromEnv", func() {
		It("should read overrides from the environment", func() {
			GinkgoT().Setenv("PORT", "9001")
			GinkgoT().Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
			GinkgoT().Setenv("REDIS_ENABLED", "true")
			GinkgoT().Setenv("ACCESS_TOKEN_DURATION", "5m")

			loaded := internal.LoadConfigFromEnv()
			Expect(loaded.Server.Port).To(Equal(9001))
			Expect(loaded.Kafka.Brokers).To(Equal([]string{"k1:9092", "k2:9092"}))
			Expect(loaded.Redis.Enabled).To(BeTrue())
			Expect(loaded.Security.AccessTokenDuration).To(Equal(5 * time.Minute))
		})

		It("should fall back to defaults on malformed values", func() {
			GinkgoT().Setenv("PORT", "not-a-number")
			loaded := internal.LoadConfigFromEnv()
			Expect(loaded.Server.Port).To(Equal(8080))
			Expect(loaded.Security.Blacklist).To(Equal("database"))
		})

		It("should deliver notifications on a single worker by default", func() {
			GinkgoT().Setenv("KAFKA_WORKERS", "")
			Expect(internal.LoadConfigFromEnv().Kafka.Workers).To(Equal(1))

			GinkgoT().Setenv("KAFKA_WORKERS", "8")
			Expect(internal.LoadConfigFromEnv().Kafka.Workers).To(Equal(8))
		})
	})
})
