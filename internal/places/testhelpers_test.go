package places

const testConfigYAML = `
places:
  Japan:
    Local: 日本
    Kyoto: 京都
    Osaka:
  HongKong:
    HongKongCity:
  Vietnam:
    HoChiMinhCity: Thành phố Hồ Chí Minh
trips:
  - name: Kansai
    description: Japan 2018
    cities: [Kyoto, Osaka]
    dates: ["2018/04"]
  - name: Pearl River
    description: Asia 2019/20
    cities: [HongKongCity, HoChiMinhCity]
    dates: ["2019/12", "2020/01"]
`

func testCodes() *CountryCodes {
	return NewCountryCodes(map[string]string{
		"Japan":     "JPN",
		"Hong Kong": "HKG",
		"Vietnam":   "VNM",
		"Singapore": "SGP",
	})
}
