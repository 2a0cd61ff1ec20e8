// Package config handles loading and validating Heima panel configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (HEIMA_SECTION_KEY)
//   - Validation of required fields
//   - Default value handling
//
// The gesture and carousel sections carry the interaction thresholds used by
// every panel session; changing them changes how presses are classified and
// how far a card must be dragged before it pages.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Site.Name)
package config
