package config

import (
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type OwnerConfig struct {
	PIN string `mapstructure:"pin"`
}

type CORSConfig struct {
	// Origins is a comma-separated list of allowed origins, or "*".
	Origins string `mapstructure:"origins"`
}

type UploadConfig struct {
	Dir string `mapstructure:"dir"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

type DemoConfig struct {
	MaxKeys  int `mapstructure:"maxKeys"`
	MaxUsers int `mapstructure:"maxUsers"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Owner  OwnerConfig  `mapstructure:"owner"`
	CORS   CORSConfig   `mapstructure:"cors"`
	Upload UploadConfig `mapstructure:"upload"`
	S3     S3Config     `mapstructure:"s3"`
	Demo   DemoConfig   `mapstructure:"demo"`
}

// LoadConfig reads configuration from an optional YAML file and overrides it
// with environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("owner.pin", "OWNER_PIN")
	viper.BindEnv("cors.origins", "CORS_ORIGINS")
	viper.BindEnv("upload.dir", "UPLOAD_DIR")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")
	viper.BindEnv("demo.maxKeys", "DEMO_MAX_KEYS")
	viper.BindEnv("demo.maxUsers", "DEMO_MAX_USERS")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("cors.origins", "*")
	viper.SetDefault("upload.dir", "uploads")
	viper.SetDefault("demo.maxKeys", 4)
	viper.SetDefault("demo.maxUsers", 1)

	// If the file does not exist, viper falls back to env vars only.
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return
}
