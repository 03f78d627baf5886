package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/stekker/zaptec"
)

type Config struct {
	Username      string
	Password      string
	BaseURL       string
	CacheFile     string
	EncryptionKey string
}

func (c *Config) ReadConfig() {
	c.Username = c.getEnv("ZAPTEC_USERNAME", "")
	c.Password = c.getEnv("ZAPTEC_PASSWORD", "")
	c.BaseURL = c.getEnv("ZAPTEC_BASE_URL", zaptec.DefaultBaseURL)
	c.CacheFile = c.getEnv("ZAPTEC_CACHE_FILE", "")
	c.EncryptionKey = c.getEnv("ZAPTEC_ENCRYPTION_KEY", "")
}

func (c *Config) getEnv(key, defaultValue string) string {
	res := os.Getenv(key)
	if res == "" {
		return defaultValue
	}
	return res
}

func buildClient(config *Config) (*zaptec.Client, error) {
	client, err := zaptec.NewClient(config.Username, config.Password)
	if err != nil {
		return nil, err
	}
	client.BaseURL = config.BaseURL
	if config.CacheFile != "" {
		cache, err := zaptec.NewFileTokenCache(config.CacheFile)
		if err != nil {
			return nil, err
		}
		client.TokenCache = cache
	}
	if config.EncryptionKey != "" {
		client.Encryptor = zaptec.NewAESEncryptor(config.EncryptionKey)
	}
	return client, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: zaptec chargers")
	fmt.Fprintln(os.Stderr, "       zaptec state <charger-id> <device-type>")
	fmt.Fprintln(os.Stderr, "       zaptec pause <charger-id>")
	fmt.Fprintln(os.Stderr, "       zaptec resume <charger-id>")
	fmt.Fprintln(os.Stderr, "       zaptec installation <installation-id>")
	fmt.Fprintln(os.Stderr, "       zaptec hierarchy <installation-id>")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	config := &Config{}
	config.ReadConfig()
	client, err := buildClient(config)
	if err != nil {
		log.Fatalln(err)
	}

	switch os.Args[1] {
	case "chargers":
		chargers, err := client.Chargers()
		if err != nil {
			log.Fatalln(err)
		}
		for _, charger := range chargers {
			fmt.Printf("%s\t%s\t%s (device type %d, installation %s)\n",
				charger.Id, charger.Name, charger.DeviceId, charger.DeviceType, charger.InstallationName)
		}
	case "state":
		if len(os.Args) < 4 {
			usage()
		}
		deviceType, err := strconv.Atoi(os.Args[3])
		if err != nil {
			log.Fatalln(err)
		}
		state, err := client.State(os.Args[2], deviceType)
		if err != nil {
			log.Fatalln(err)
		}
		printState(state)
	case "pause":
		if len(os.Args) < 3 {
			usage()
		}
		if err := client.PauseCharging(os.Args[2]); err != nil {
			log.Fatalln(err)
		}
		log.Println("charging paused")
	case "resume":
		if len(os.Args) < 3 {
			usage()
		}
		if err := client.ResumeCharging(os.Args[2]); err != nil {
			log.Fatalln(err)
		}
		log.Println("charging resumed")
	case "installation":
		if len(os.Args) < 3 {
			usage()
		}
		installation, err := client.GetInstallation(os.Args[2])
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Printf("%s\t%s, %s %s (%s)\n",
			installation.Id, installation.Address, installation.ZipCode, installation.City, installation.CountryCode)
	case "hierarchy":
		if len(os.Args) < 3 {
			usage()
		}
		hierarchy, err := client.GetInstallationHierarchy(os.Args[2])
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Printf("%s\t%s\t%s\n", hierarchy.Id, hierarchy.Name, hierarchy.NetworkTypeName)
		for _, circuit := range hierarchy.Circuits {
			fmt.Printf("  circuit %s (%s, max %.1fA)\n", circuit.Id, circuit.Name, circuit.MaxCurrent)
			for _, charger := range circuit.Chargers {
				fmt.Printf("    charger %s\t%s\n", charger.Id, charger.Name)
			}
		}
	default:
		usage()
	}
}

func printState(state *zaptec.State) {
	if online, err := state.Online(); err == nil {
		fmt.Printf("online: %t\n", online)
	}
	if mode, err := state.OperationMode(); err == nil {
		fmt.Printf("operation mode: %s\n", mode)
	}
	if charging, err := state.Charging(); err == nil {
		fmt.Printf("charging: %t\n", charging)
	}
	if power, err := state.TotalChargePower(); err == nil {
		fmt.Printf("total charge power: %.3f kW\n", power)
	}
	if session, err := state.TotalChargePowerSession(); err == nil {
		fmt.Printf("session energy: %.3f kWh\n", session)
	}
	if reading, err := state.MeterReading(); err == nil && reading != nil {
		fmt.Printf("meter reading: %.3f kWh at %s\n", reading.ReadingKwh, reading.Timestamp.Format("2006-01-02 15:04:05"))
	}
}
