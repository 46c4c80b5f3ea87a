package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

//Kernel puts in dst the Gaussian weights exp(coeff*(c-x)^2) of the point x for each
//bin centre c in centers, and returns dst. If dst is nil or too short, a new slice is allocated.
//coeff should be negative, the more negative, the narrower the peak.
func Kernel(dst, centers []float64, coeff, x float64) []float64 {
	dst = getCopySlice(len(centers), dst)
	for i, c := range centers {
		dst[i] = math.Exp(coeff * ((c - x) * (c - x)))
	}
	return dst
}

//A matrix of smoothed histograms. All the rows share the same bin centres and smoothing
//coefficient, and each data point is added to every row, with a different weight per row.
//A Matrix is not safe for concurrent use.
type Matrix struct {
	rows    int
	d       []*Smooth
	centers []float64
	coeff   float64
	kernel  []float64 //scratch space
}

//NewMatrix returns a new matrix with r empty histograms, all with the
//given bin centres and smoothing coefficient.
func NewMatrix(r int, centers []float64, coeff float64) *Matrix {
	ret := new(Matrix)
	ret.rows = r
	ret.coeff = coeff
	ret.centers = make([]float64, len(centers))
	copy(ret.centers, centers)
	ret.d = make([]*Smooth, r)
	for i := range ret.d {
		ret.d[i] = NewSmooth(ret.centers, coeff, i)
	}
	ret.kernel = make([]float64, len(centers))
	return ret
}

//Dims returns the number of rows (histograms) and of columns (bins) in the matrix.
func (M *Matrix) Dims() (int, int) {
	return M.rows, len(M.centers)
}

//Copies the bin centres of the matrix
func (M *Matrix) CopyCenters(dest ...[]float64) []float64 {
	d := getCopySlice(len(M.centers), dest...)
	copy(d, M.centers)
	return d
}

//Coeff returns the smoothing coefficient
func (M *Matrix) Coeff() float64 {
	return M.coeff
}

func (M *Matrix) String() string {
	r, c := M.Dims()
	ret := fmt.Sprintf("rows:%d cols:%d coeff:%g | Data:\n", r, c, M.coeff)
	t := make([]string, 0, len(M.d))
	for _, v := range M.d {
		t = append(t, v.String())
	}
	return ret + strings.Join(t, "\n\n")
}

func (M *Matrix) MarshalJSON() ([]byte, error) {
	j, err := json.Marshal(struct {
		Rows    int       `json:"rows"`
		Coeff   float64   `json:"coeff"`
		D       []*Smooth `json:"data"`
		Centers []float64 `json:"centers"`
	}{
		Rows:    M.rows,
		Coeff:   M.coeff,
		D:       M.d,
		Centers: M.centers,
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (M *Matrix) UnmarshalJSON(b []byte) error {
	var a struct {
		Rows    int       `json:"rows"`
		Coeff   float64   `json:"coeff"`
		D       []*Smooth `json:"data"`
		Centers []float64 `json:"centers"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	if len(a.D) != a.Rows {
		return fmt.Errorf("gomof/Histo.Matrix.UnmarshalJSON: %d rows declared, %d given", a.Rows, len(a.D))
	}
	M.rows = a.Rows
	M.coeff = a.Coeff
	M.d = a.D
	M.centers = a.Centers
	M.kernel = make([]float64, len(a.Centers))
	return nil
}

//Check checks if the given row index is within range.
//if pan is given and true, it panics if it is out of range,
//otherwise, it returns an error.
func (M *Matrix) Check(r int, pan ...bool) error {
	var err error
	if r < 0 || r >= M.rows {
		err = fmt.Errorf("gomof/Histo: Row %d out of range", r)
	}
	if err != nil && len(pan) > 0 && pan[0] {
		panic(err.Error())
	}
	return err
}

//View Returns a view of the histogram in the r row of the matrix
func (M *Matrix) View(r int) *Smooth {
	M.Check(r, true)
	return M.d[r]
}

//AddSmoothed adds the point x to all the histograms in the matrix. Row i gets
//weights[i]*exp(coeff*(c-x)^2) added to the bin with centre c. The kernel is computed
//only once for all rows. It panics if there aren't as many weights as rows.
func (M *Matrix) AddSmoothed(x float64, weights []float64) {
	if len(weights) != M.rows {
		panic(fmt.Sprintf("gomof/Histo.Matrix.AddSmoothed: %d weights for %d rows", len(weights), M.rows))
	}
	M.kernel = Kernel(M.kernel, M.centers, M.coeff, x)
	for i, v := range M.d {
		v.addKernel(M.kernel, weights[i])
	}
}

//Scale multiplies all the histograms by f
func (M *Matrix) Scale(f float64) {
	for _, v := range M.d {
		floats.Scale(f, v.histo)
	}
}

//Flatten puts the contents of the matrix, in row-major order, in dst, and returns it.
//if dst is nil or too short, a new slice is allocated.
func (M *Matrix) Flatten(dst ...[]float64) []float64 {
	_, c := M.Dims()
	d := getCopySlice(M.rows*c, dst...)
	for i, v := range M.d {
		copy(d[i*c:(i+1)*c], v.histo)
	}
	return d
}

//Add adds, element-wise, the histograms of a and b and puts the result in the receiver,
//which must have the same shape. It panics if the bin centres don't match.
func (M *Matrix) Add(a, b *Matrix) {
	if a.rows != b.rows || a.rows != M.rows {
		panic("gomof/histo.Matrix.Add: Ill-formed matrices for addition")
	}
	if !floats.Equal(a.centers, b.centers) || !floats.Equal(a.centers, M.centers) {
		panic("gomof/histo.Matrix.Add: Matrices don't have the same centers")
	}
	for i, v := range M.d {
		v.Add(a.d[i], b.d[i])
	}
}

//Smooth is a histogram where each point contributes to all bins, weighted
//by a Gaussian function of the distance between the point and the bin centre.
type Smooth struct {
	id      int
	total   int
	coeff   float64
	centers []float64
	histo   []float64
}

//NewSmooth returns a new, empty, smoothed histogram with the given bin centres and
//smoothing coefficient. if an ID for the histogram is given, it will be set. If not, the ID will
//be set to -1.
func NewSmooth(centers []float64, coeff float64, ID ...int) *Smooth {
	d := new(Smooth)
	d.centers = centers
	d.coeff = coeff
	d.histo = make([]float64, len(centers))
	d.id = -1
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d
}

func (D *Smooth) MarshalJSON() ([]byte, error) {
	j, err := json.Marshal(struct {
		ID      int       `json:"id"`
		Total   int       `json:"total"`
		Coeff   float64   `json:"coeff"`
		Centers []float64 `json:"centers"`
		Histo   []float64 `json:"histo"`
	}{
		ID:      D.id,
		Total:   D.total,
		Coeff:   D.coeff,
		Centers: D.centers,
		Histo:   D.histo,
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (D *Smooth) UnmarshalJSON(b []byte) error {
	var a struct {
		ID      int       `json:"id"`
		Total   int       `json:"total"`
		Coeff   float64   `json:"coeff"`
		Centers []float64 `json:"centers"`
		Histo   []float64 `json:"histo"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	if len(a.Centers) != len(a.Histo) {
		return fmt.Errorf("gomof/Histo.Smooth.UnmarshalJSON: %d centers but %d values", len(a.Centers), len(a.Histo))
	}
	D.id = a.ID
	D.total = a.Total
	D.coeff = a.Coeff
	D.centers = a.Centers
	D.histo = a.Histo
	return nil
}

//ID returns the ID of the histogram
func (D *Smooth) ID() int {
	return D.id
}

//Total returns the number of points added to the histogram
func (D *Smooth) Total() int {
	return D.total
}

//String prints a -hopefully- pretty string representation of
//the histogram. The representation uses 3 lines of text
func (D *Smooth) String() string {
	ret := fmt.Sprintf("ID: %d, Coeff: %g, TotalData: %d\n", D.id, D.coeff, D.total)
	d := make([]string, 0, len(D.centers))
	h := make([]string, 0, len(D.centers))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%9.2f", D.centers[i]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

//AddData adds the given data point(s) to the histogram, with weight 1.
func (D *Smooth) AddData(point ...float64) {
	k := make([]float64, len(D.centers))
	for _, v := range point {
		k = Kernel(k, D.centers, D.coeff, v)
		D.addKernel(k, 1)
	}
}

func (D *Smooth) addKernel(k []float64, w float64) {
	floats.AddScaled(D.histo, w, k)
	D.total++
}

//Copies the bin centres of the histogram
func (D *Smooth) CopyCenters(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.centers), dest...)
	copy(d, D.centers)
	return d
}

//Copy returns a copy of the values of the histogram.
func (D *Smooth) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	copy(d, D.histo)
	return d
}

func (D *Smooth) View() []float64 {
	return D.histo
}

//Add adds the histograms a and b putting the result in the receiver.
func (D *Smooth) Add(a, b *Smooth) {
	if len(a.histo) != len(b.histo) || len(D.histo) != len(a.histo) {
		panic("gomof/Histo.Smooth.Add: Ill-formed histograms for addition")
	}
	if !floats.Equal(a.centers, b.centers) {
		panic("gomof/Histo.Smooth.Add: Centers must match in added histograms")
	}
	floats.AddTo(D.histo, a.histo, b.histo)
	D.total = a.total + b.total
}

func (D *Smooth) Sum() float64 {
	return floats.Sum(D.histo)
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	var d []float64
	if len(dest) > 0 && len(dest[0]) >= N {
		d = dest[0]
		if len(dest[0]) > N {
			d = dest[0][:N]
		}
	} else {
		d = make([]float64, N)
	}
	return d

}
