// ops_bcd.go - decimal adjust instructions: DAA/DAS/AAA/AAS/AAM/AAD
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

func init() {
	registerOp(0x27, "DAA", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		al, cf, af := bcdDAA(c.AL(), c.CF(), c.AF())
		c.SetAL(al)
		c.setFlag(flagCF, cf)
		c.setFlag(flagAF, af)
		c.setFlag(flagPF, parityTable8[al])
		c.setFlag(flagZF, al == 0)
		c.setFlag(flagSF, al&0x80 != 0)
	})
	registerOp(0x2F, "DAS", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		al, cf, af := bcdDAS(c.AL(), c.CF(), c.AF())
		c.SetAL(al)
		c.setFlag(flagCF, cf)
		c.setFlag(flagAF, af)
		c.setFlag(flagPF, parityTable8[al])
		c.setFlag(flagZF, al == 0)
		c.setFlag(flagSF, al&0x80 != 0)
	})
	registerOp(0x37, "AAA", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		al, ah, cf, af := bcdAAA(c.AL(), c.AH(), c.AF())
		c.SetAL(al)
		c.SetAH(ah)
		c.setFlag(flagCF, cf)
		c.setFlag(flagAF, af)
	})
	registerOp(0x3F, "AAS", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		al, ah, cf, af := bcdAAS(c.AL(), c.AH(), c.AF())
		c.SetAL(al)
		c.SetAH(ah)
		c.setFlag(flagCF, cf)
		c.setFlag(flagAF, af)
	})
	registerOp(0xD4, "AAM", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		base := c.immediate8(bus, cd)
		if base == 0 {
			c.raiseException(bus, vecDivideError)
			return
		}
		al, ah, zf, sf, pf := bcdAAM(c.AL(), base)
		c.SetAL(al)
		c.SetAH(ah)
		c.setFlag(flagZF, zf)
		c.setFlag(flagSF, sf)
		c.setFlag(flagPF, pf)
	})
	registerOp(0xD5, "AAD", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		base := c.immediate8(bus, cd)
		al, zf, sf, pf := bcdAAD(c.AL(), c.AH(), base)
		c.SetAL(al)
		c.SetAH(0)
		c.setFlag(flagZF, zf)
		c.setFlag(flagSF, sf)
		c.setFlag(flagPF, pf)
	})
}
