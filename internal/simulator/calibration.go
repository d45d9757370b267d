package simulator

import "github.com/rickgao/skyle/internal/rpc"

// calibrationRun walks the targets of one calibration.
type calibrationRun struct {
	targets []rpc.Point
	index   int
}

func newCalibrationRun(ctl *rpc.CalibControl, defWidth, defHeight int32) *calibrationRun {
	w, h := float64(defWidth), float64(defHeight)
	if ctl.Res != nil && ctl.Res.Width > 0 && ctl.Res.Height > 0 {
		w, h = float64(ctl.Res.Width), float64(ctl.Res.Height)
	}
	return &calibrationRun{targets: targets(int(ctl.NumberOfPoints), w, h)}
}

// targets returns a 3x3 grid, or the corners plus centre for five points.
func targets(n int, w, h float64) []rpc.Point {
	xs := []float64{0.1 * w, 0.5 * w, 0.9 * w}
	ys := []float64{0.1 * h, 0.5 * h, 0.9 * h}
	if n == 5 {
		return []rpc.Point{
			{X: xs[0], Y: ys[0]},
			{X: xs[2], Y: ys[0]},
			{X: xs[1], Y: ys[1]},
			{X: xs[0], Y: ys[2]},
			{X: xs[2], Y: ys[2]},
		}
	}
	pts := make([]rpc.Point, 0, 9)
	for _, y := range ys {
		for _, x := range xs {
			pts = append(pts, rpc.Point{X: x, Y: y})
		}
	}
	return pts
}

// next returns the next point event, or the quality result once every
// target was shown.
func (r *calibrationRun) next() *rpc.CalibMessages {
	if r.index < len(r.targets) {
		p := r.targets[r.index]
		msg := &rpc.CalibMessages{CalibPoint: &rpc.CalibPoint{Count: int32(r.index), CurrentPoint: &p}}
		r.index++
		return msg
	}

	qualitys := make([]float64, len(r.targets))
	var sum float64
	for i := range qualitys {
		qualitys[i] = 0.95 - 0.01*float64(i)
		sum += qualitys[i]
	}
	return &rpc.CalibMessages{CalibQuality: &rpc.CalibQuality{
		Quality:  sum / float64(len(qualitys)),
		Qualitys: qualitys,
	}}
}
