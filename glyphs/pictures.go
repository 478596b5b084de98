package glyphs

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"phonicsfont/alphabet"
)

// Line art for each picture word. Coordinates are top down inside the
// drawing box. Eyes, windows and similar details are holes.

const lineWidth = 40

func v(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

var pictures = map[rune]func(p *Pen){
	'a': drawApple,
	'b': drawBall,
	'c': drawCat,
	'd': drawDog,
	'e': drawElephant,
	'f': drawFish,
	'g': drawGiraffe,
	'h': drawHouse,
	'i': drawIgloo,
	'j': drawJellyfish,
	'k': drawKite,
	'l': drawLion,
	'm': drawMonkey,
	'n': drawNest,
	'o': drawOctopus,
	'p': drawPenguin,
	'q': drawQueen,
	'r': drawRabbit,
	's': drawSnake,
	't': drawTiger,
	'u': drawUmbrella,
	'v': drawViolin,
	'w': drawWatermelon,
	'x': drawXylophone,
	'y': drawYacht,
	'z': drawZebra,
}

func drawPicture(p *Pen, l alphabet.Letter) {
	draw, ok := pictures[l.Char]
	if !ok {
		RoundBlob(p, 500, 500, 400)
		return
	}
	draw(p)
}

func drawApple(p *Pen) {
	const cx, cy, r = 500, 520, 380
	Circle(p, cx, cy, r)
	Rect(p, cx-25, cy-r-150, cx+25, cy-r+10)
	Polygon(p, v(cx+50, cy-r-75), v(cx+200, cy-r-150), v(cx+200, cy-r-50), v(cx+50, cy-r))
}

func drawBall(p *Pen) {
	const cx, cy, r = 500, 500, 400
	Circle(p, cx, cy, r)
	p.Hole(func() {
		Stroke(p, cx-r/2, cy, cx+r/2, cy, lineWidth)
		Stroke(p, cx, cy-r/2, cx, cy+r/2, lineWidth)
		Stroke(p, cx-r/3, cy-r/3, cx+r/3, cy+r/3, lineWidth)
		Stroke(p, cx-r/3, cy+r/3, cx+r/3, cy-r/3, lineWidth)
	})
}

func drawCat(p *Pen) {
	const cx, cy, r = 500, 560, 330
	Circle(p, cx, cy, r)
	Triangle(p, v(cx-r/2, cy-r/2), v(cx-r-60, cy-r-120), v(cx, cy-r+20))
	Triangle(p, v(cx+r/2, cy-r/2), v(cx+r+60, cy-r-120), v(cx, cy-r+20))
	p.Hole(func() {
		Rect(p, cx-r/3-80, cy-r/5-80, cx-r/3, cy-r/5)
		Rect(p, cx+r/3, cy-r/5-80, cx+r/3+80, cy-r/5)
		Triangle(p, v(cx, cy+r/5), v(cx-60, cy+r/5+60), v(cx+60, cy+r/5+60))
		Stroke(p, cx-80, cy+r/5+70, cx-240, cy+r/5+110, 20)
		Stroke(p, cx+80, cy+r/5+70, cx+240, cy+r/5+110, 20)
	})
}

func drawDog(p *Pen) {
	const cx, cy, r = 500, 520, 300
	Circle(p, cx, cy, r)
	Ellipse(p, cx-r-40, cy+20, 90, 220)
	Ellipse(p, cx+r+40, cy+20, 90, 220)
	p.Hole(func() {
		Circle(p, cx-110, cy-80, 45)
		Circle(p, cx+110, cy-80, 45)
		Ellipse(p, cx, cy+70, 80, 55)
		Stroke(p, cx-100, cy+180, cx+100, cy+180, 30)
	})
}

func drawElephant(p *Pen) {
	const cx, cy = 500, 420
	Ellipse(p, cx, cy, 230, 200)
	Ellipse(p, cx-260, cy, 150, 220)
	Ellipse(p, cx+260, cy, 150, 220)
	Polygon(p, v(cx-60, cy+150), v(cx+60, cy+150), v(cx+50, cy+430), v(cx+160, cy+480),
		v(cx+150, cy+540), v(cx-20, cy+480), v(cx-60, cy+420))
	p.Hole(func() {
		Circle(p, cx-90, cy-40, 35)
		Circle(p, cx+90, cy-40, 35)
	})
}

func drawFish(p *Pen) {
	const cx, cy = 440, 500
	Ellipse(p, cx, cy, 320, 200)
	Triangle(p, v(cx+270, cy), v(cx+500, cy-200), v(cx+500, cy+200))
	Triangle(p, v(cx-40, cy-180), v(cx+100, cy-300), v(cx+140, cy-170))
	p.Hole(func() {
		Circle(p, cx-190, cy-50, 40)
		Stroke(p, cx-80, cy-120, cx-80, cy+120, 25)
	})
}

func drawGiraffe(p *Pen) {
	Ellipse(p, 600, 640, 260, 150)
	Polygon(p, v(380, 620), v(260, 180), v(340, 160), v(480, 560))
	Ellipse(p, 260, 150, 120, 80)
	for _, x := range []float64{420, 500, 700, 780} {
		Rect(p, x-25, 740, x+25, 960)
	}
	Triangle(p, v(200, 90), v(215, 20), v(240, 85))
	Triangle(p, v(280, 85), v(305, 20), v(320, 90))
	p.Hole(func() {
		Circle(p, 560, 600, 50)
		Circle(p, 700, 660, 45)
		Circle(p, 220, 140, 20)
	})
}

func drawHouse(p *Pen) {
	const cx, cy, w, h = 500, 500, 600, 400
	Rect(p, cx-w/2, cy, cx+w/2, cy+h)
	Triangle(p, v(cx-w/2-40, cy+10), v(cx, cy-250), v(cx+w/2+40, cy+10))
	p.Hole(func() {
		Rect(p, cx-75, cy+h-250, cx+75, cy+h)
		Rect(p, cx-w/4-60, cy+h/3, cx-w/4+60, cy+h/3+120)
		Rect(p, cx+w/4-60, cy+h/3, cx+w/4+60, cy+h/3+120)
	})
}

func drawIgloo(p *Pen) {
	const cx, base, r = 500, 800, 400
	points := []vec.Vec2{}
	for i := 0; i <= 12; i++ {
		angle := math.Pi * float64(i) / 12
		points = append(points, v(cx-r*math.Cos(angle), base-r*math.Sin(angle)))
	}
	Polygon(p, points...)
	p.Hole(func() {
		Rect(p, cx-90, base-160, cx+90, base)
		Stroke(p, cx-330, base-200, cx-120, base-200, 20)
		Stroke(p, cx+120, base-200, cx+330, base-200, 20)
		Stroke(p, cx-250, base-320, cx+250, base-320, 20)
	})
}

func drawJellyfish(p *Pen) {
	const cx, top = 500, 150
	points := []vec.Vec2{}
	for i := 0; i <= 12; i++ {
		angle := math.Pi * float64(i) / 12
		points = append(points, v(cx-330*math.Cos(angle), top+300-300*math.Sin(angle)))
	}
	Polygon(p, points...)
	for i := 0; i < 5; i++ {
		x := cx - 240 + float64(i)*120
		Polygon(p, v(x-20, top+290), v(x+20, top+290), v(x+50, top+550), v(x+10, top+800), v(x-20, top+790), v(x+10, top+550))
	}
	p.Hole(func() {
		Circle(p, cx-110, top+170, 35)
		Circle(p, cx+110, top+170, 35)
	})
}

func drawKite(p *Pen) {
	Polygon(p, v(500, 80), v(780, 380), v(500, 720), v(220, 380))
	Stroke(p, 500, 720, 420, 940, 20)
	Triangle(p, v(460, 800), v(400, 760), v(410, 840))
	p.Hole(func() {
		Stroke(p, 500, 140, 500, 660, 20)
		Stroke(p, 280, 380, 720, 380, 20)
	})
}

func drawLion(p *Pen) {
	const cx, cy = 500, 500
	RegularPolygon(p, cx, cy, 430, 16, 0)
	p.Hole(func() {
		Circle(p, cx, cy, 270)
	})
	Circle(p, cx, cy, 230)
	p.Hole(func() {
		Circle(p, cx-90, cy-60, 35)
		Circle(p, cx+90, cy-60, 35)
		Triangle(p, v(cx-50, cy+40), v(cx+50, cy+40), v(cx, cy+100))
		Stroke(p, cx, cy+100, cx, cy+160, 20)
	})
}

func drawMonkey(p *Pen) {
	const cx, cy, r = 500, 500, 320
	Circle(p, cx, cy, r)
	Circle(p, cx-r-60, cy-40, 110)
	Circle(p, cx+r+60, cy-40, 110)
	p.Hole(func() {
		Ellipse(p, cx, cy+110, 200, 140)
		Circle(p, cx-110, cy-90, 45)
		Circle(p, cx+110, cy-90, 45)
	})
	Stroke(p, cx-90, cy+140, cx+90, cy+140, 30)
}

func drawNest(p *Pen) {
	const cx, top = 500, 520
	Polygon(p, v(cx-420, top), v(cx+420, top), v(cx+320, top+260), v(cx-320, top+260))
	Ellipse(p, cx-130, top-80, 110, 140)
	Ellipse(p, cx+130, top-80, 110, 140)
	Ellipse(p, cx, top-110, 110, 140)
	p.Hole(func() {
		Stroke(p, cx-360, top+80, cx+360, top+80, 20)
		Stroke(p, cx-330, top+170, cx+330, top+170, 20)
	})
}

func drawOctopus(p *Pen) {
	const cx, cy = 500, 330
	Ellipse(p, cx, cy, 280, 250)
	for i := 0; i < 8; i++ {
		x := cx - 280 + float64(i)*80
		Stroke(p, x, cy+150, x+(float64(i)-3.5)*40, 940, 45)
	}
	p.Hole(func() {
		Circle(p, cx-100, cy-20, 45)
		Circle(p, cx+100, cy-20, 45)
	})
}

func drawPenguin(p *Pen) {
	const cx = 500
	Ellipse(p, cx, 580, 260, 360)
	Circle(p, cx, 220, 170)
	Triangle(p, v(cx-30, 250), v(cx+30, 250), v(cx, 330))
	Ellipse(p, cx-110, 940, 90, 40)
	Ellipse(p, cx+110, 940, 90, 40)
	p.Hole(func() {
		Ellipse(p, cx, 640, 160, 250)
		Circle(p, cx-60, 190, 30)
		Circle(p, cx+60, 190, 30)
	})
}

func drawQueen(p *Pen) {
	const cx = 500
	Polygon(p, v(cx-300, 420), v(cx-300, 160), v(cx-150, 300), v(cx, 100),
		v(cx+150, 300), v(cx+300, 160), v(cx+300, 420))
	Circle(p, cx, 620, 200)
	Rect(p, cx-280, 830, cx+280, 940)
	p.Hole(func() {
		Circle(p, cx-70, 590, 30)
		Circle(p, cx+70, 590, 30)
		Stroke(p, cx-70, 700, cx+70, 700, 25)
		Circle(p, cx, 330, 40)
	})
}

func drawRabbit(p *Pen) {
	const cx = 500
	Circle(p, cx, 600, 280)
	Ellipse(p, cx-110, 220, 70, 220)
	Ellipse(p, cx+110, 220, 70, 220)
	p.Hole(func() {
		Circle(p, cx-100, 560, 40)
		Circle(p, cx+100, 560, 40)
		Triangle(p, v(cx-35, 660), v(cx+35, 660), v(cx, 710))
		Stroke(p, cx-60, 760, cx+60, 760, 20)
	})
}

func drawSnake(p *Pen) {
	points := []vec.Vec2{}
	for i := 0; i <= 16; i++ {
		t := float64(i) / 16
		points = append(points, v(120+t*700, 560+180*math.Sin(t*3*math.Pi)))
	}
	for i := 1; i < len(points); i++ {
		Stroke(p, points[i-1].X, points[i-1].Y, points[i].X, points[i].Y, 110)
	}
	Ellipse(p, 850, 560, 110, 80)
	p.Hole(func() {
		Circle(p, 880, 530, 20)
	})
	Polygon(p, v(950, 560), v(990, 540), v(980, 560), v(990, 580))
}

func drawTiger(p *Pen) {
	const cx, cy, r = 500, 540, 350
	Circle(p, cx, cy, r)
	Triangle(p, v(cx-r+20, cy-r/2), v(cx-r+30, cy-r-80), v(cx-r/3, cy-r+30))
	Triangle(p, v(cx+r-20, cy-r/2), v(cx+r-30, cy-r-80), v(cx+r/3, cy-r+30))
	p.Hole(func() {
		Circle(p, cx-120, cy-70, 40)
		Circle(p, cx+120, cy-70, 40)
		Triangle(p, v(cx-50, cy+40), v(cx+50, cy+40), v(cx, cy+100))
		for _, y := range []float64{cy - 250, cy - 200, cy - 150} {
			Stroke(p, cx-60, y, cx+60, y, 25)
		}
		Stroke(p, cx-r+30, cy+20, cx-200, cy+40, 25)
		Stroke(p, cx+r-30, cy+20, cx+200, cy+40, 25)
	})
}

func drawUmbrella(p *Pen) {
	const cx, base, r = 500, 480, 400
	points := []vec.Vec2{}
	for i := 0; i <= 12; i++ {
		angle := math.Pi * float64(i) / 12
		points = append(points, v(cx-r*math.Cos(angle), base-r*math.Sin(angle)))
	}
	for i := 3; i > 0; i-- {
		x := cx - r + float64(i)*2*r/4
		points = append(points, v(x+r/4, base-50), v(x, base))
	}
	Polygon(p, points...)
	Stroke(p, cx, base-10, cx, 860, 40)
	Stroke(p, cx, 860, cx-80, 900, 40)
	Stroke(p, cx-80, 900, cx-130, 840, 40)
}

func drawViolin(p *Pen) {
	const cx = 500
	Ellipse(p, cx, 720, 220, 190)
	Ellipse(p, cx, 430, 170, 160)
	Rect(p, cx-120, 470, cx+120, 680)
	Rect(p, cx-30, 60, cx+30, 300)
	Ellipse(p, cx, 70, 50, 50)
	p.Hole(func() {
		Stroke(p, cx-80, 520, cx-60, 660, 20)
		Stroke(p, cx+80, 520, cx+60, 660, 20)
		Rect(p, cx-70, 800, cx+70, 830)
	})
}

func drawWatermelon(p *Pen) {
	const cx, top, r = 500, 300, 420
	points := []vec.Vec2{}
	for i := 0; i <= 12; i++ {
		angle := math.Pi * float64(i) / 12
		points = append(points, v(cx+r*math.Cos(angle), top+r*math.Sin(angle)))
	}
	Polygon(p, points...)
	p.Hole(func() {
		Stroke(p, cx-r+60, top+60, cx+r-60, top+60, 25)
		for _, x := range []float64{-200, -100, 0, 100, 200} {
			Ellipse(p, cx+x, top+180+math.Abs(x)/4, 20, 35)
		}
	})
}

func drawXylophone(p *Pen) {
	for i := 0; i < 6; i++ {
		x := 140 + float64(i)*130
		h := 560 - float64(i)*60
		Rect(p, x, 500-h/2, x+100, 500+h/2)
	}
	Stroke(p, 120, 330, 900, 420, 30)
	Stroke(p, 120, 670, 900, 580, 30)
	Stroke(p, 600, 900, 840, 700, 30)
	Circle(p, 850, 690, 45)
}

func drawYacht(p *Pen) {
	Polygon(p, v(80, 720), v(920, 720), v(780, 880), v(220, 880))
	Rect(p, 480, 120, 520, 720)
	Triangle(p, v(470, 140), v(470, 660), v(180, 660))
	Triangle(p, v(530, 200), v(530, 660), v(800, 660))
	p.Hole(func() {
		Circle(p, 330, 800, 30)
		Circle(p, 500, 800, 30)
		Circle(p, 670, 800, 30)
	})
}

func drawZebra(p *Pen) {
	Ellipse(p, 560, 520, 300, 170)
	Polygon(p, v(300, 480), v(180, 200), v(270, 170), v(420, 420))
	Ellipse(p, 180, 190, 110, 75)
	for _, x := range []float64{380, 460, 660, 740} {
		Rect(p, x-25, 640, x+25, 920)
	}
	Stroke(p, 860, 480, 940, 680, 25)
	p.Hole(func() {
		for _, x := range []float64{420, 500, 580, 660} {
			Stroke(p, x, 380, x-30, 660, 30)
		}
		Stroke(p, 230, 250, 330, 230, 25)
		Circle(p, 150, 170, 20)
	})
}
