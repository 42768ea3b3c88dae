package series

// NewDefaultRegistry builds the production registry with every product
// series in its fixed priority order. Longer, more specific prefixes come
// first; the one-letter slim air-handler series is tried last so it never
// shadows another grammar.
func NewDefaultRegistry() *Registry {
	he := newCoilResolver(coilConfig{
		series:        "HE",
		kind:          casedCoil,
		description:   "Cased upflow A-coil, painted cabinet, copper tube",
		finish:        "Painted",
		material:      "Copper tube",
		materialGroup: "SG",
	})
	hd := newCoilResolver(coilConfig{
		series:        "HD",
		kind:          casedCoil,
		description:   "Cased upflow A-coil, embossed galvanized cabinet, copper tube",
		finish:        "Embossed",
		material:      "Copper tube",
		materialGroup: "EG",
	})
	hm := newCoilResolver(coilConfig{
		series:        "HM",
		kind:          casedCoil,
		description:   "Multi-position cased coil, embossed cabinet, config A/D",
		finish:        "Embossed",
		material:      "Copper tube",
		materialGroup: "EG",
		configLetters: "AD",
	})
	cp := newCoilResolver(coilConfig{
		series:        "CP",
		kind:          casedCoil,
		description:   "Cased upflow A-coil, painted cabinet, all-aluminum",
		finish:        "Painted",
		material:      "All-aluminum",
		materialGroup: "AL",
	})
	ce := newCoilResolver(coilConfig{
		series:        "CE",
		kind:          casedCoil,
		description:   "Cased upflow A-coil, embossed cabinet, all-aluminum",
		finish:        "Embossed",
		material:      "All-aluminum",
		materialGroup: "AL",
	})
	uc := newCoilResolver(coilConfig{
		series:        "UC",
		kind:          uncasedCoil,
		description:   "Uncased conventional A-coil",
		material:      "Copper tube",
		materialGroup: "UC",
	})
	uh := newCoilResolver(coilConfig{
		series:        "UH",
		kind:          uncasedCoil,
		description:   "Uncased high-efficiency A-coil",
		material:      "All-aluminum",
		materialGroup: "UC",
	})
	hh := newCoilResolver(coilConfig{
		series:        "HH",
		kind:          horizontalCoil,
		description:   "Horizontal slab coil",
		material:      "Copper tube",
		materialGroup: "HC",
	})
	hl := newCoilResolver(coilConfig{
		series:        "HL",
		kind:          horizontalCoil,
		description:   "Low-profile horizontal slab coil",
		material:      "All-aluminum",
		materialGroup: "HC",
	})

	amh := newAHResolver(ahConfig{
		series:      "AMH",
		description: "Multi-position air handler with electric heat kit",
		mount:       "Multi-position",
		voltAlt:     "123",
		hasMotor:    true,
		hasConn:     true,
		hasHeat:     true,
		heatAlt:     `00|05|08|10|XX`,
		keyByMotor:  true,
	})
	avh := newAHResolver(ahConfig{
		series:      "AVH",
		description: "Vertical air handler with electric heat kit",
		mount:       "Vertical",
		voltAlt:     "123",
		hasMotor:    true,
		hasHeat:     true,
		heatAlt:     `00|05|08|10`,
		keyByMotor:  true,
	})
	awh := newAHResolver(ahConfig{
		series:      "AWH",
		description: "Wall-mount air handler, cooling only",
		mount:       "Wall-mount",
		voltAlt:     "12",
	})
	s := newAHResolver(ahConfig{
		series:      "S",
		description: "Slim air handler with electric heat kit",
		mount:       "Slim",
		voltAlt:     "12",
		hasHeat:     true,
		heatAlt:     `00|05|08`,
	})

	mx := newAliasResolver("MX", "Private-label alias of the HE series", he)

	return New(amh, avh, awh, he, hd, hm, cp, ce, uc, uh, hh, hl, mx, s)
}
