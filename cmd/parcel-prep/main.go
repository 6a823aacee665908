package main

import (
	"os"

	"rotational-map/internal/logger"
	"rotational-map/internal/prep"
	"rotational-map/internal/utils"

	"github.com/joho/godotenv"
)

// 文档注释：原始地块数据预处理
// 背景：原始数据为 UTM 47N 坐标与完整土地利用属性；输出经纬度几何、状态分类与代表点。
// 约束：输入输出路径可由参数或 PREP_INPUT / PREP_OUTPUT 指定，参数优先
func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()
	in := utils.Getenv("PREP_INPUT", "rotational-farming.json")
	out := utils.Getenv("PREP_OUTPUT", "minified_farms.json")
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	if len(os.Args) > 2 {
		out = os.Args[2]
	}
	zone := prep.UTM47N
	if n := utils.GetenvInt("PREP_UTM_ZONE", 0); n > 0 && n <= 60 {
		zone.Number = n
	}
	st, err := prep.ProcessFile(in, out, zone)
	if err != nil {
		l.Error("prep_error", "err", err)
		os.Exit(1)
	}
	if st.Skipped > 0 {
		l.Warn("prep_skipped", "count", st.Skipped, "reason", "no_geometry")
	}
}
