package g2

type Type int
