package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/kr/pretty"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/bwowan/vb-Mifare1K-smartcard/internal/mifare"
	"github.com/bwowan/vb-Mifare1K-smartcard/internal/reader"
	"github.com/bwowan/vb-Mifare1K-smartcard/internal/utils/log"
)

var (
	app = kingpin.New("mifare-dump", "Dump and inspect MIFARE Classic 1K cards through a PC/SC reader.")

	debug      = app.Flag("debug", "Enable debug logging.").Bool()
	readerName = app.Flag("reader", "Use the reader with this name instead of the first one found.").String()
	timeout    = app.Flag("timeout", "How long to wait for a card. 0 waits forever.").Default("12s").Duration()
	keyHex     = app.Flag("key", "Authentication key as 6 hex bytes. Defaults to the transport key.").String()
	keyType    = app.Flag("key-type", "Authenticate with key A or B.").Default("A").Enum("A", "B")

	dumpCmd    = app.Command("dump", "Wait for a card and dump its first sector.").Default()
	dumpAll    = dumpCmd.Flag("all", "Dump all 16 sectors.").Bool()
	dumpSector = dumpCmd.Flag("sector", "Dump this sector instead of sector 0.").Default("0").Int()

	writeCmd    = app.Command("write", "Write one data block.")
	writeSector = writeCmd.Flag("sector", "Sector to write to.").Default("1").Int()
	writeBlock  = writeCmd.Flag("block", "Block within the sector.").Default("0").Int()
	writeText   = writeCmd.Flag("text", "ASCII payload, padded with spaces.").String()
	writeData   = writeCmd.Flag("data", "Hex payload, padded with zeroes.").String()
	writeZero   = writeCmd.Flag("zero", "Fill the block with zeroes.").Bool()
	writeRandom = writeCmd.Flag("random", "Fill the block with random bytes.").Bool()
	writeYes    = writeCmd.Flag("yes", "Actually write. Without it the payload is only shown.").Bool()

	readersCmd = app.Command("readers", "List connected PC/SC readers.")
	versionCmd = app.Command("version", "Print version information.")
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))
	if *debug {
		log.SetLevel("debug")
	}

	var err error
	switch cmd {
	case dumpCmd.FullCommand():
		err = runDump()
	case writeCmd.FullCommand():
		err = runWrite()
	case readersCmd.FullCommand():
		err = runReaders()
	case versionCmd.FullCommand():
		fmt.Printf("mifare-dump v%s\n", VERSION)
		fmt.Printf("Git commit: %s\n", GITCOMMIT)
		fmt.Printf("Built at: %s\n", BUILDTIME)
	}
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// makeKey builds the authentication key from the global flags.
func makeKey() (mifare.Key, error) {
	data, err := mifare.ParseKey(*keyHex)
	if err != nil {
		return mifare.Key{}, err
	}
	kt := mifare.KeyA
	if *keyType == "B" {
		kt = mifare.KeyB
	}
	return mifare.Key{Type: kt, Data: data}, nil
}

// connect selects a reader, waits for a card and connects to it.
func connect() (*reader.Reader, error) {
	rdr, err := reader.New(*readerName)
	if err != nil {
		return nil, err
	}
	log.Infof("using reader: %s", rdr.Name())

	if err := rdr.WaitForCard(*timeout); err != nil {
		rdr.Close()
		return nil, err
	}
	if err := rdr.Connect(); err != nil {
		rdr.Close()
		return nil, err
	}
	return rdr, nil
}

func runDump() error {
	key, err := makeKey()
	if err != nil {
		return err
	}

	var sectors []int
	switch {
	case *dumpAll:
		for n := 0; n < mifare.TotalSectors; n++ {
			sectors = append(sectors, n)
		}
	default:
		if *dumpSector < 0 || *dumpSector >= mifare.TotalSectors {
			return fmt.Errorf("sector must be between 0 and %d", mifare.TotalSectors-1)
		}
		sectors = []int{*dumpSector}
	}

	rdr, err := connect()
	if err != nil {
		return err
	}
	defer rdr.Close()

	if atr, err := rdr.ATR(); err == nil {
		log.Infof("card present, ATR %s", mifare.HexBytes(atr))
	}

	d := mifare.NewDump()
	mifare.ReadCard(rdr, d, sectors, key)
	log.Debugf("parsed dump: %# v", pretty.Formatter(d))

	d.Render(os.Stdout, sectors)
	if !d.Readable(sectors) {
		return fmt.Errorf("card could not be read (%s)", d.Status)
	}
	return nil
}

func runWrite() error {
	key, err := makeKey()
	if err != nil {
		return err
	}
	data, err := writePayload()
	if err != nil {
		return err
	}

	if *writeSector < 0 || *writeSector >= mifare.TotalSectors {
		return fmt.Errorf("sector must be between 0 and %d", mifare.TotalSectors-1)
	}
	if *writeBlock < 0 || *writeBlock >= mifare.BlocksPerSector-1 {
		return fmt.Errorf("block must be between 0 and %d, the trailer is not writable", mifare.BlocksPerSector-2)
	}
	if *writeSector == 0 && *writeBlock == 0 {
		return fmt.Errorf("block 0 of sector 0 is the manufacturer block")
	}
	block := byte(*writeSector*mifare.BlocksPerSector + *writeBlock)

	log.Infof("payload for sector %02d block %02d: %s", *writeSector, *writeBlock, mifare.HexBytes(data))
	if !*writeYes {
		log.Warn("dry run, pass --yes to write")
		return nil
	}

	rdr, err := connect()
	if err != nil {
		return err
	}
	defer rdr.Close()

	if err := mifare.LoadKey(rdr, key.Data); err != nil {
		return err
	}
	if err := mifare.Authenticate(rdr, block, key.Type); err != nil {
		return err
	}
	if err := mifare.WriteBlock(rdr, block, data); err != nil {
		return err
	}

	// read back to confirm the card accepted the data
	verify, err := mifare.ReadBlock(rdr, block)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if !bytes.Equal(verify, data) {
		return fmt.Errorf("verify: card returned %s", mifare.HexBytes(verify))
	}
	log.Info("block written and verified")
	return nil
}

func writePayload() ([]byte, error) {
	switch {
	case *writeText != "":
		return mifare.TextPayload(*writeText)
	case *writeData != "":
		return mifare.HexPayload(*writeData)
	case *writeZero:
		return mifare.ZeroPayload(), nil
	case *writeRandom:
		return mifare.RandomPayload()
	}
	return nil, fmt.Errorf("one of --text, --data, --zero or --random is required")
}

func runReaders() error {
	readers, err := reader.List()
	if err != nil {
		return err
	}
	for i, r := range readers {
		fmt.Printf("%d: %s\n", i, r)
	}
	return nil
}
