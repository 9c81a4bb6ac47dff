// Command bdocverify is a thin entrypoint wiring the signature validation
// engine to disk: a signature file, a directory of container documents, a
// certificate store, and an OCSP configuration file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vvk-ee/bdoc-verify/certstore"
	"github.com/vvk-ee/bdoc-verify/config"
	"github.com/vvk-ee/bdoc-verify/internal/logging"
	"github.com/vvk-ee/bdoc-verify/ocspclient"
	"github.com/vvk-ee/bdoc-verify/validator"
	"github.com/vvk-ee/bdoc-verify/xades"
	"github.com/vvk-ee/bdoc-verify/xmlmodel"
)

func main() {
	os.Exit(run())
}

func run() int {
	sigPath := flag.String("signature", "", "path to the XAdES ds:Signature XML file")
	docsDir := flag.String("documents", "", "directory of container documents the signature references")
	trustFile := flag.String("trust", "", "PEM bundle of trust-anchor certificates")
	intermediatesFile := flag.String("intermediates", "", "PEM bundle of issuer/intermediate certificates")
	configFile := flag.String("config", "", "path to the JSON engine configuration (digest URI, OCSP directory)")
	online := flag.Bool("online", false, "confirm certificate status against the OCSP responder instead of checking embedded TM material")
	flag.Parse()

	if *sigPath == "" || *docsDir == "" || *trustFile == "" || *configFile == "" {
		fmt.Fprintln(os.Stderr, "usage: bdocverify -signature FILE -documents DIR -trust FILE -config FILE [-intermediates FILE] [-online]")
		return 2
	}

	logger, err := logging.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger setup failed:", err)
		return 1
	}
	logging.Set(logger)
	defer logger.Sync()

	store := certstore.New()
	if err := store.LoadTrustAnchorFile(*trustFile); err != nil {
		fmt.Fprintln(os.Stderr, "loading trust anchors:", err)
		return 1
	}
	if *intermediatesFile != "" {
		if err := store.LoadPEMFile(*intermediatesFile); err != nil {
			fmt.Fprintln(os.Stderr, "loading intermediates:", err)
			return 1
		}
	}

	cfg, err := config.Load(*configFile, store)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading configuration:", err)
		return 1
	}

	buf, err := os.ReadFile(*sigPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "reading signature file:", err)
		return 1
	}

	container, err := newDirContainer(*docsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "reading documents directory:", err)
		return 1
	}

	sig, err := xades.Parse(buf, container)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parsing signature:", err)
		return 1
	}

	if err := sig.ValidateOffline(store.Roots()); err != nil {
		fmt.Fprintln(os.Stderr, "offline validation failed:", err)
		return 1
	}
	fmt.Println("offline validation: OK")

	v := validator.New(sig, cfg)
	ctx := context.Background()

	if *online {
		status, err := v.ValidateBESOnline(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "online OCSP confirmation failed:", err)
			return 1
		}
		fmt.Println("OCSP status:", status)
		if status == ocspclient.StatusRevoked {
			return 1
		}
		return 0
	}

	if sig.Dialect() != xmlmodel.DialectV132 && sig.Dialect() != xmlmodel.DialectV111 {
		fmt.Fprintln(os.Stderr, "unrecognized signature dialect")
		return 1
	}
	if !sig.HasTMMaterial() {
		fmt.Fprintln(os.Stderr, "signature carries no TM material; rerun with -online to confirm status directly")
		return 1
	}
	if err := v.ValidateTMOffline(); err != nil {
		fmt.Fprintln(os.Stderr, "TM validation failed:", err)
		return 1
	}
	fmt.Println("TM validation: OK")
	return 0
}
